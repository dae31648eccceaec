package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vkarpenko/authd/internal/domain/user"
)

var _ user.Repo = (*UserRepo)(nil)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const (
	qUserInsert = `
INSERT INTO users (email, password_hash, is_active, is_superuser)
VALUES ($1, $2, $3, $4)
RETURNING id, email, password_hash, is_active, is_superuser, created_at, updated_at;`

	qUserByID = `
SELECT id, email, password_hash, is_active, is_superuser, created_at, updated_at
FROM users
WHERE id = $1;`

	qUserByEmail = `
SELECT id, email, password_hash, is_active, is_superuser, created_at, updated_at
FROM users
WHERE email = $1;`

	qUserUpdate = `
UPDATE users
SET email         = $2,
    password_hash = $3,
    is_active     = $4,
    is_superuser  = $5,
    updated_at    = NOW()
WHERE id = $1
RETURNING id, email, password_hash, is_active, is_superuser, created_at, updated_at;`
)

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	err := scanUser(r.db.Pool.QueryRow(ctx, qUserInsert, u.Email, u.PasswordHash, u.IsActive, u.IsSuperuser), u)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("user insert: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserByID, id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var u user.User
	if err := scanUser(r.db.Pool.QueryRow(ctx, qUserByEmail, email), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Update(ctx context.Context, u *user.User) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	row := r.db.Pool.QueryRow(ctx, qUserUpdate, u.ID, u.Email, u.PasswordHash, u.IsActive, u.IsSuperuser)
	if err := scanUser(row, u); err != nil {
		return fmt.Errorf("user update: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row, out *user.User) error {
	err := row.Scan(&out.ID, &out.Email, &out.PasswordHash, &out.IsActive, &out.IsSuperuser,
		&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("scan user: %w", err)
	}
	return nil
}
