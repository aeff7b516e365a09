package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okadio/microblog/internal/domain/entity"
	"github.com/okadio/microblog/internal/domain/repository"
)

const userColumns = `id, name, email, password_hash, activated, coalesce(activation_token, ''), avatar_url, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Activated,
		&u.ActivationToken, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// isUniqueViolation reports a Postgres 23505 error, which is how a lost race
// on the email uniqueness constraint surfaces.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	u.Email = strings.ToLower(u.Email)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, activated, activation_token, avatar_url)
		VALUES ($1, $2, $3, $4, nullif($5, ''), $6)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.PasswordHash, u.Activated, u.ActivationToken, u.AvatarURL)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = $1
	`, strings.ToLower(email)))
}

// ConsumeActivationToken clears the token and activates the user in one
// statement, so concurrent confirmations with the same token resolve to at
// most one success.
func (r *UserRepository) ConsumeActivationToken(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, `
		UPDATE users
		SET activated = true, activation_token = NULL, updated_at = now()
		WHERE activation_token = $1
		RETURNING `+userColumns+`
	`, token))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.Email = strings.ToLower(u.Email)
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, activated = $4,
		    activation_token = nullif($5, ''), avatar_url = $6, updated_at = $7
		WHERE id = $8
	`, u.Name, u.Email, u.PasswordHash, u.Activated, u.ActivationToken, u.AvatarURL, u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the user row; statuses and follow edges go with it via
// ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
