// Package reminders schedules and delivers reminder nudges through a
// River-backed job queue. Jobs are persisted in Postgres, so scheduled
// reminders survive restarts; delivery marks the reminder row as sent.
package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/rs/zerolog/log"
)

// QueueConfig holds the tunable parameters of the reminder queue.
type QueueConfig struct {
	MaxWorkers int
	MaxRetries int
	JobTimeout time.Duration
}

func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{
		MaxWorkers: 5,
		MaxRetries: 10,
		JobTimeout: time.Minute,
	}
}

func (c *QueueConfig) riverQueues() map[string]river.QueueConfig {
	return map[string]river.QueueConfig{
		river.QueueDefault: {MaxWorkers: c.MaxWorkers},
	}
}

// Queue schedules reminder deliveries via River.
type Queue struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	config *QueueConfig
}

// NewQueue creates the connection pool, registers the delivery worker,
// and builds the River client. River's own tables must already exist
// (river migrate-up).
func NewQueue(ctx context.Context, databaseURL string, config *QueueConfig) (*Queue, error) {
	if config == nil {
		config = DefaultQueueConfig()
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &deliveryWorker{pool: pool, config: config})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:  config.riverQueues(),
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create river client: %w", err)
	}

	return &Queue{client: client, pool: pool, config: config}, nil
}

// Start begins processing scheduled reminders.
func (q *Queue) Start(ctx context.Context) error {
	return q.client.Start(ctx)
}

// Stop drains workers and closes the pool.
func (q *Queue) Stop(ctx context.Context) error {
	err := q.client.Stop(ctx)
	q.pool.Close()
	return err
}

// Schedule persists the reminder row and enqueues its delivery job at
// the scheduled time.
func (q *Queue) Schedule(ctx context.Context, reminder *Reminder) error {
	if reminder.ID == "" {
		reminder.ID = uuid.NewString()
	}
	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now()
	}

	insert := `
		INSERT INTO reminders (id, user_id, source_type, source_id, title, scheduled_for, sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)`
	_, err := q.pool.Exec(ctx, insert,
		reminder.ID, reminder.UserID, string(reminder.SourceType), reminder.SourceID,
		reminder.Title, reminder.ScheduledFor, reminder.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}

	args := DeliveryArgs{
		ReminderID: reminder.ID,
		UserID:     reminder.UserID,
		Title:      reminder.Title,
	}
	_, err = q.client.Insert(ctx, args, &river.InsertOpts{
		ScheduledAt: reminder.ScheduledFor,
		MaxAttempts: q.config.MaxRetries,
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue reminder delivery: %w", err)
	}

	log.Info().
		Str("reminder_id", reminder.ID).
		Str("user_id", reminder.UserID).
		Time("scheduled_for", reminder.ScheduledFor).
		Msg("reminder scheduled")
	return nil
}

// ListPending returns unsent reminders for a user, soonest first.
func (q *Queue) ListPending(ctx context.Context, userID string) ([]*Reminder, error) {
	query := `
		SELECT id, user_id, source_type, source_id, title, scheduled_for, sent, sent_at, created_at
		FROM reminders
		WHERE user_id = $1 AND sent = FALSE
		ORDER BY scheduled_for ASC`
	rows, err := q.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var out []*Reminder
	for rows.Next() {
		var r Reminder
		var sourceType string
		if err := rows.Scan(&r.ID, &r.UserID, &sourceType, &r.SourceID, &r.Title,
			&r.ScheduledFor, &r.Sent, &r.SentAt, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		r.SourceType = SourceType(sourceType)
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}
	return out, nil
}
