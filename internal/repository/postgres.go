package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samlehman617/HeyImHungry/internal/domain"
)

// Compile-time interface assertion.
var _ UserRepository = (*PostgresUserRepo)(nil)

const uniqueViolation = "23505"

// PostgresUserRepo implements UserRepository on pgx. Username uniqueness is
// enforced by the unique index, not by an application-level lock.
type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const getUserByUsernameSQL = `SELECT user_id, username, password_hash, device_pin, created_at, updated_at
FROM users WHERE username = $1`

func (r *PostgresUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.pool.QueryRow(ctx, getUserByUsernameSQL, username)
	return scanUser(row)
}

const getUserByIDSQL = `SELECT user_id, username, password_hash, device_pin, created_at, updated_at
FROM users WHERE user_id = $1`

func (r *PostgresUserRepo) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	row := r.pool.QueryRow(ctx, getUserByIDSQL, userID)
	return scanUser(row)
}

const insertUserSQL = `INSERT INTO users (user_id, username, password_hash, device_pin, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)`

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	now := time.Now().UTC()
	_, err := r.pool.Exec(ctx, insertUserSQL, user.ID, user.Username, user.PasswordHash, user.DevicePIN, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, domain.ErrConflict
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	user.CreatedAt = now
	user.UpdatedAt = now
	return user, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.DevicePIN, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
