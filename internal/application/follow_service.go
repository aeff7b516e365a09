package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/okadio/microblog/internal/domain/entity"
	repo "github.com/okadio/microblog/internal/domain/repository"
)

// FollowService maintains the directed follow graph.
type FollowService struct {
	Users   repo.UserRepository
	Follows repo.FollowRepository
	Logger  *logrus.Logger
}

func NewFollowService(users repo.UserRepository, follows repo.FollowRepository, logger *logrus.Logger) *FollowService {
	return &FollowService{Users: users, Follows: follows, Logger: logger}
}

// Follow creates an edge from actor to target. Following yourself is
// rejected; following twice is a no-op.
func (s *FollowService) Follow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrSelfFollow
	}
	if _, err := s.Users.GetByID(ctx, targetID); err != nil {
		return mapStoreErr(err)
	}
	return s.Follows.Follow(ctx, actorID, targetID)
}

func (s *FollowService) Unfollow(ctx context.Context, actorID, targetID string) error {
	if _, err := s.Users.GetByID(ctx, targetID); err != nil {
		return mapStoreErr(err)
	}
	return s.Follows.Unfollow(ctx, actorID, targetID)
}

func (s *FollowService) IsFollowing(ctx context.Context, actorID, targetID string) (bool, error) {
	return s.Follows.IsFollowing(ctx, actorID, targetID)
}

func (s *FollowService) Followers(ctx context.Context, userID string, limit, offset int) ([]*entity.User, int, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return nil, 0, mapStoreErr(err)
	}
	return s.Follows.Followers(ctx, userID, limit, offset)
}

func (s *FollowService) Following(ctx context.Context, userID string, limit, offset int) ([]*entity.User, int, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return nil, 0, mapStoreErr(err)
	}
	return s.Follows.Following(ctx, userID, limit, offset)
}

func (s *FollowService) Counts(ctx context.Context, userID string) (int, int, error) {
	return s.Follows.Counts(ctx, userID)
}
