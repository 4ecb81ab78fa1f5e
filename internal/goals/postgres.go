package goals

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

func (s *PostgresStore) Create(ctx context.Context, g *Goal) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Category == "" {
		g.Category = CategoryPersonal
	}
	if g.Status == "" {
		g.Status = StatusNotStarted
	}

	var createdAt, updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO goals (id, user_id, title, description, category, priority, status, progress, target_date, ai_suggested, ai_context)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING created_at, updated_at
    `,
		g.ID, g.UserID, g.Title, nullIfEmpty(g.Description), string(g.Category), defaultPriority(g.Priority),
		string(g.Status), g.Progress, g.TargetDate, g.AISuggested, nullIfEmpty(g.AIContext),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("failed to create goal: %w", err)
	}
	g.CreatedAt = createdAt
	g.UpdatedAt = updatedAt
	return nil
}

func (s *PostgresStore) List(ctx context.Context, userID string, f Filter) ([]*Goal, error) {
	query := `
        SELECT id, user_id, title, COALESCE(description, ''), category, priority, status, progress, target_date,
               ai_suggested, COALESCE(ai_context, ''), created_at, updated_at, completed_at
        FROM goals
        WHERE user_id = $1
    `
	args := []interface{}{userID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, string(f.Category))
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var out []*Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, userID, id string) (*Goal, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, user_id, title, COALESCE(description, ''), category, priority, status, progress, target_date,
               ai_suggested, COALESCE(ai_context, ''), created_at, updated_at, completed_at
        FROM goals
        WHERE id = $1 AND user_id = $2
    `, id, userID)
	g, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) Update(ctx context.Context, g *Goal) error {
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
        UPDATE goals
        SET title=$1, description=$2, category=$3, priority=$4, status=$5, progress=$6,
            target_date=$7, completed_at=$8, updated_at=NOW()
        WHERE id=$9 AND user_id=$10
        RETURNING updated_at
    `,
		g.Title, nullIfEmpty(g.Description), string(g.Category), defaultPriority(g.Priority),
		string(g.Status), g.Progress, g.TargetDate, g.CompletedAt, g.ID, g.UserID,
	).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	g.UpdatedAt = updatedAt
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
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

func scanGoal(row rowScanner) (*Goal, error) {
	var g Goal
	var category, status string
	err := row.Scan(
		&g.ID, &g.UserID, &g.Title, &g.Description, &category, &g.Priority, &status, &g.Progress,
		&g.TargetDate, &g.AISuggested, &g.AIContext, &g.CreatedAt, &g.UpdatedAt, &g.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Category = Category(category)
	g.Status = Status(status)
	return &g, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func defaultPriority(p string) string {
	if p == "" {
		return "Medium"
	}
	return p
}
