package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

func (s *PostgresStore) Create(ctx context.Context, t *Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = StatusPending
	}

	var createdAt, updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO tasks (id, user_id, title, description, priority, status, due_date, tags, ai_suggested, ai_context)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING created_at, updated_at
    `,
		t.ID, t.UserID, t.Title, nullIfEmpty(t.Description), string(t.Priority), string(t.Status),
		t.DueDate, pq.Array(ensureNotNil(t.Tags)), t.AISuggested, nullIfEmpty(t.AIContext),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	t.CreatedAt = createdAt
	t.UpdatedAt = updatedAt
	return nil
}

func (s *PostgresStore) List(ctx context.Context, userID string, f Filter) ([]*Task, error) {
	query := `
        SELECT id, user_id, title, COALESCE(description, ''), priority, status, due_date, tags,
               ai_suggested, COALESCE(ai_context, ''), created_at, updated_at, completed_at
        FROM tasks
        WHERE user_id = $1
    `
	args := []interface{}{userID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Priority != "" {
		args = append(args, string(f.Priority))
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if f.AISuggested != nil {
		args = append(args, *f.AISuggested)
		query += fmt.Sprintf(" AND ai_suggested = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var out []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, userID, id string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, user_id, title, COALESCE(description, ''), priority, status, due_date, tags,
               ai_suggested, COALESCE(ai_context, ''), created_at, updated_at, completed_at
        FROM tasks
        WHERE id = $1 AND user_id = $2
    `, id, userID)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) Update(ctx context.Context, t *Task) error {
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
        UPDATE tasks
        SET title=$1, description=$2, priority=$3, status=$4, due_date=$5, tags=$6,
            completed_at=$7, updated_at=NOW()
        WHERE id=$8 AND user_id=$9
        RETURNING updated_at
    `,
		t.Title, nullIfEmpty(t.Description), string(t.Priority), string(t.Status),
		t.DueDate, pq.Array(ensureNotNil(t.Tags)), t.CompletedAt, t.ID, t.UserID,
	).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	t.UpdatedAt = updatedAt
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var priority, status string
	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &priority, &status, &t.DueDate,
		pq.Array(&t.Tags), &t.AISuggested, &t.AIContext, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Priority = Priority(priority)
	t.Status = Status(status)
	return &t, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func ensureNotNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
