package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/odyssey-erp/odyssey-tasks/internal/shared"
)

// Repository persists tasks. Every lookup by id also matches the owner in the
// same predicate, so a task that exists but belongs to someone else is
// reported exactly like a missing one: shared.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, task Task) (*Task, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Task, error)
	GetOwned(ctx context.Context, id, ownerID string) (*Task, error)
	UpdateOwned(ctx context.Context, id, ownerID string, patch Patch) (*Task, error)
	DeleteOwned(ctx context.Context, id, ownerID string) error
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const taskColumns = `id, title, description, user_id, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db dbtx
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(db dbtx) *PGRepository {
	return &PGRepository{db: db}
}

func scanTask(row pgx.Row) (*Task, error) {
	var t Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts the task with a freshly assigned id.
func (r *PGRepository) Create(ctx context.Context, task Task) (*Task, error) {
	task.ID = uuid.NewString()
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (id, user_id, title, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		task.ID, task.UserID, task.Title, task.Description,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("tasks: insert: %w", err)
	}
	return &task, nil
}

// ListByOwner returns the owner's tasks in creation order.
func (r *PGRepository) ListByOwner(ctx context.Context, ownerID string) ([]Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("tasks: list: %w", err)
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("tasks: scan: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tasks: list: %w", err)
	}
	return out, nil
}

// GetOwned fetches a task by id and owner.
func (r *PGRepository) GetOwned(ctx context.Context, id, ownerID string) (*Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, shared.ErrNotFound
	}
	t, err := scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("tasks: get: %w", err)
	}
	return t, nil
}

// UpdateOwned overwrites the supplied fields in one statement.
func (r *PGRepository) UpdateOwned(ctx context.Context, id, ownerID string, patch Patch) (*Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, shared.ErrNotFound
	}
	t, err := scanTask(r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title = COALESCE($3, title),
		     description = COALESCE($4, description),
		     updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+taskColumns,
		id, ownerID, patch.Title, patch.Description,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("tasks: update: %w", err)
	}
	return t, nil
}

// DeleteOwned removes a task by id and owner.
func (r *PGRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return shared.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("tasks: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
