package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/odyssey-erp/odyssey-tasks/internal/shared"
)

const uniqueViolation = "23505"

// Repository defines persistence operations for user credentials.
type Repository interface {
	// Create stores a new user and assigns its ID. It returns
	// shared.ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, user User) (*User, error)
	// FindByEmail returns shared.ErrNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*User, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db dbtx
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db dbtx) *PGRepository {
	return &PGRepository{db: db}
}

// Create inserts the user. The unique constraint on email backs up the
// lookup-before-insert done by the signup flow.
func (r *PGRepository) Create(ctx context.Context, user User) (*User, error) {
	user.ID = uuid.NewString()
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		user.ID, user.Name, user.Email, user.PasswordHash,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, shared.ErrEmailTaken
		}
		return nil, fmt.Errorf("users: insert: %w", err)
	}
	return &user, nil
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("users: find by email: %w", err)
	}
	return &user, nil
}

var _ Repository = (*PGRepository)(nil)
