package repository

import (
	"context"
	"errors"

	"github.com/okadio/microblog/internal/domain/entity"
)

// Storage errors every implementation must map onto.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already taken")
)

// UserRepository is the credential store. Create must fail with
// ErrDuplicateEmail when the (case-insensitive) email is taken, relying on the
// store's uniqueness constraint so concurrent registrations race safely.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// ConsumeActivationToken atomically clears the matching token and flips
	// the user to activated, returning the user. ErrNotFound when no user
	// holds the token; a consumed token never matches again.
	ConsumeActivationToken(ctx context.Context, token string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, int, error)
}

// StatusRepository persists posts.
type StatusRepository interface {
	Create(ctx context.Context, s *entity.Status) error
	GetByID(ctx context.Context, id string) (*entity.Status, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Status, int, error)
	// Feed returns statuses authored by userID or anyone userID follows,
	// newest first.
	Feed(ctx context.Context, userID string, limit, offset int) ([]*entity.Status, int, error)
}

// FollowRepository persists directed follow edges.
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followedID string) error
	Unfollow(ctx context.Context, followerID, followedID string) error
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	Followers(ctx context.Context, userID string, limit, offset int) ([]*entity.User, int, error)
	Following(ctx context.Context, userID string, limit, offset int) ([]*entity.User, int, error)
	Counts(ctx context.Context, userID string) (followers int, following int, err error)
}
