package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/okadio/microblog/internal/domain/entity"
	repo "github.com/okadio/microblog/internal/domain/repository"
)

// StatusService handles posts. Statuses are immutable after creation; the
// only mutation is owner-gated deletion.
type StatusService struct {
	Statuses repo.StatusRepository
	Logger   *logrus.Logger
}

func NewStatusService(statuses repo.StatusRepository, logger *logrus.Logger) *StatusService {
	return &StatusService{Statuses: statuses, Logger: logger}
}

func (s *StatusService) Create(ctx context.Context, userID, content string) (*entity.Status, error) {
	st := &entity.Status{UserID: userID, Content: content}
	if err := s.Statuses.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Delete removes a status after the ownership check. A miss is ErrNotFound;
// someone else's status is ErrForbidden.
func (s *StatusService) Delete(ctx context.Context, actorID, statusID string) error {
	st, err := s.Statuses.GetByID(ctx, statusID)
	if err != nil {
		return mapStoreErr(err)
	}
	if !CanDeleteStatus(actorID, st) {
		return ErrForbidden
	}
	return mapStoreErr(s.Statuses.Delete(ctx, statusID))
}

func (s *StatusService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Status, int, error) {
	return s.Statuses.ListByUser(ctx, userID, limit, offset)
}

// Feed is the home timeline: own statuses plus followed users', newest first.
func (s *StatusService) Feed(ctx context.Context, userID string, limit, offset int) ([]*entity.Status, int, error) {
	return s.Statuses.Feed(ctx, userID, limit, offset)
}
