package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okadio/microblog/internal/domain/entity"
	"github.com/okadio/microblog/internal/domain/repository"
)

type FollowRepository struct {
	pool *pgxpool.Pool
}

func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

// Follow is idempotent: re-following is a no-op on the composite key.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followedID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO follows (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`, followerID, followedID)
	return err
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followedID string) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2
	`, followerID, followedID)
	return err
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2)
	`, followerID, followedID).Scan(&exists)
	return exists, err
}

func (r *FollowRepository) Followers(ctx context.Context, userID string, limit, offset int) ([]*entity.User, int, error) {
	return r.edgeUsers(ctx, `
		SELECT count(*) FROM follows WHERE followed_id = $1
	`, `
		SELECT users.id, users.name, users.email, users.password_hash, users.activated, coalesce(users.activation_token, ''), users.avatar_url, users.created_at, users.updated_at
		FROM users
		JOIN follows f ON f.follower_id = users.id
		WHERE f.followed_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

func (r *FollowRepository) Following(ctx context.Context, userID string, limit, offset int) ([]*entity.User, int, error) {
	return r.edgeUsers(ctx, `
		SELECT count(*) FROM follows WHERE follower_id = $1
	`, `
		SELECT users.id, users.name, users.email, users.password_hash, users.activated, coalesce(users.activation_token, ''), users.avatar_url, users.created_at, users.updated_at
		FROM users
		JOIN follows f ON f.followed_id = users.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

func (r *FollowRepository) Counts(ctx context.Context, userID string) (int, int, error) {
	var followers, following int
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM follows WHERE followed_id = $1),
			(SELECT count(*) FROM follows WHERE follower_id = $1)
	`, userID).Scan(&followers, &following)
	return followers, following, err
}

func (r *FollowRepository) edgeUsers(ctx context.Context, countQuery, listQuery, userID string, limit, offset int) ([]*entity.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, listQuery, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

var _ repository.FollowRepository = (*FollowRepository)(nil)
