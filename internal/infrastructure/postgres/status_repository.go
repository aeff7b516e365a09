package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okadio/microblog/internal/domain/entity"
	"github.com/okadio/microblog/internal/domain/repository"
)

type StatusRepository struct {
	pool *pgxpool.Pool
}

func NewStatusRepository(pool *pgxpool.Pool) *StatusRepository {
	return &StatusRepository{pool: pool}
}

func (r *StatusRepository) Create(ctx context.Context, s *entity.Status) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO statuses (user_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, s.UserID, s.Content)
	return row.Scan(&s.ID, &s.CreatedAt)
}

func (r *StatusRepository) GetByID(ctx context.Context, id string) (*entity.Status, error) {
	s := &entity.Status{}
	row := r.pool.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.content, s.created_at, u.name
		FROM statuses s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`, id)
	if err := row.Scan(&s.ID, &s.UserID, &s.Content, &s.CreatedAt, &s.UserName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *StatusRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM statuses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *StatusRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Status, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM statuses WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return r.list(ctx, total, `
		SELECT s.id, s.user_id, s.content, s.created_at, u.name
		FROM statuses s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

// Feed returns own statuses plus those of followed users, newest first.
func (r *StatusRepository) Feed(ctx context.Context, userID string, limit, offset int) ([]*entity.Status, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM statuses s
		WHERE s.user_id = $1
		   OR s.user_id IN (SELECT followed_id FROM follows WHERE follower_id = $1)
	`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return r.list(ctx, total, `
		SELECT s.id, s.user_id, s.content, s.created_at, u.name
		FROM statuses s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1
		   OR s.user_id IN (SELECT followed_id FROM follows WHERE follower_id = $1)
		ORDER BY s.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
}

func (r *StatusRepository) list(ctx context.Context, total int, query string, args ...any) ([]*entity.Status, int, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var statuses []*entity.Status
	for rows.Next() {
		s := &entity.Status{}
		if err := rows.Scan(&s.ID, &s.UserID, &s.Content, &s.CreatedAt, &s.UserName); err != nil {
			return nil, 0, err
		}
		statuses = append(statuses, s)
	}
	return statuses, total, rows.Err()
}

var _ repository.StatusRepository = (*StatusRepository)(nil)
