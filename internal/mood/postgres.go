package mood

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

func (s *PostgresStore) Create(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Date.IsZero() {
		e.Date = time.Now()
	}

	var createdAt, updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO mood_entries (id, user_id, entry_date, mood, energy, notes, ai_context)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at
    `,
		e.ID, e.UserID, e.Date, string(e.Mood), e.Energy, nullIfEmpty(e.Notes), nullIfEmpty(e.AIContext),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("failed to create mood entry: %w", err)
	}
	e.CreatedAt = createdAt
	e.UpdatedAt = updatedAt
	return nil
}

func (s *PostgresStore) List(ctx context.Context, userID string, f Filter) ([]*Entry, error) {
	query := `
        SELECT id, user_id, entry_date, mood, energy, COALESCE(notes, ''), COALESCE(ai_context, ''),
               created_at, updated_at
        FROM mood_entries
        WHERE user_id = $1
    `
	args := []interface{}{userID}
	if f.Mood != "" {
		args = append(args, string(f.Mood))
		query += fmt.Sprintf(" AND mood = $%d", len(args))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since)
		query += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if !f.Until.IsZero() {
		args = append(args, f.Until)
		query += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}
	query += " ORDER BY entry_date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mood entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mood entries: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, userID, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, user_id, entry_date, mood, energy, COALESCE(notes, ''), COALESCE(ai_context, ''),
               created_at, updated_at
        FROM mood_entries
        WHERE id = $1 AND user_id = $2
    `, id, userID)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get mood entry: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete mood entry: %w", err)
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

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var moodName string
	err := row.Scan(
		&e.ID, &e.UserID, &e.Date, &moodName, &e.Energy, &e.Notes, &e.AIContext,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Mood = Mood(moodName)
	return &e, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
