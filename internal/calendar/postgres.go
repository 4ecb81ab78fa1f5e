package calendar

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

func (s *PostgresStore) Create(ctx context.Context, e *Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Type == "" {
		e.Type = TypePersonal
	}

	var createdAt, updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO calendar_events (id, user_id, title, description, event_type, event_date, start_time, end_time, is_all_day, location, ai_suggested, ai_context)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at, updated_at
    `,
		e.ID, e.UserID, e.Title, nullIfEmpty(e.Description), string(e.Type), e.Date,
		e.StartTime, e.EndTime, e.IsAllDay, nullIfEmpty(e.Location), e.AISuggested, nullIfEmpty(e.AIContext),
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return fmt.Errorf("failed to create calendar event: %w", err)
	}
	e.CreatedAt = createdAt
	e.UpdatedAt = updatedAt
	return nil
}

func (s *PostgresStore) List(ctx context.Context, userID string, f Filter) ([]*Event, error) {
	query := `
        SELECT id, user_id, title, COALESCE(description, ''), event_type, event_date, start_time, end_time,
               is_all_day, COALESCE(location, ''), ai_suggested, COALESCE(ai_context, ''), created_at, updated_at
        FROM calendar_events
        WHERE user_id = $1
    `
	args := []interface{}{userID}
	if f.Type != "" {
		args = append(args, string(f.Type))
		query += fmt.Sprintf(" AND event_type = $%d", len(args))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		query += fmt.Sprintf(" AND event_date = $%d", len(args))
	}
	query += " ORDER BY event_date ASC, start_time ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	defer rows.Close()

	var out []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calendar events: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, userID, id string) (*Event, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, user_id, title, COALESCE(description, ''), event_type, event_date, start_time, end_time,
               is_all_day, COALESCE(location, ''), ai_suggested, COALESCE(ai_context, ''), created_at, updated_at
        FROM calendar_events
        WHERE id = $1 AND user_id = $2
    `, id, userID)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar event: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) Update(ctx context.Context, e *Event) error {
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
        UPDATE calendar_events
        SET title=$1, description=$2, event_type=$3, event_date=$4, start_time=$5, end_time=$6,
            is_all_day=$7, location=$8, updated_at=NOW()
        WHERE id=$9 AND user_id=$10
        RETURNING updated_at
    `,
		e.Title, nullIfEmpty(e.Description), string(e.Type), e.Date, e.StartTime, e.EndTime,
		e.IsAllDay, nullIfEmpty(e.Location), e.ID, e.UserID,
	).Scan(&updatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update calendar event: %w", err)
	}
	e.UpdatedAt = updatedAt
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
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

func scanEvent(row rowScanner) (*Event, error) {
	var e Event
	var eventType string
	err := row.Scan(
		&e.ID, &e.UserID, &e.Title, &e.Description, &eventType, &e.Date, &e.StartTime, &e.EndTime,
		&e.IsAllDay, &e.Location, &e.AISuggested, &e.AIContext, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Type = EventType(eventType)
	return &e, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
