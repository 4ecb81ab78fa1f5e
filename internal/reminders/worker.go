package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/rs/zerolog/log"
)

// DeliveryArgs are the River job arguments for delivering one reminder.
type DeliveryArgs struct {
	ReminderID string `json:"reminder_id"`
	UserID     string `json:"user_id"`
	Title      string `json:"title"`
}

func (DeliveryArgs) Kind() string { return "reminder_delivery" }

// deliveryWorker marks a reminder as sent when its time arrives.
// Delivery today is a log line plus the sent flag the client polls;
// push channels can hang off the same job later.
type deliveryWorker struct {
	river.WorkerDefaults[DeliveryArgs]
	pool   *pgxpool.Pool
	config *QueueConfig
}

func (w *deliveryWorker) Timeout(job *river.Job[DeliveryArgs]) time.Duration {
	return w.config.JobTimeout
}

func (w *deliveryWorker) Work(ctx context.Context, job *river.Job[DeliveryArgs]) error {
	args := job.Args

	update := `
		UPDATE reminders
		SET sent = TRUE, sent_at = NOW()
		WHERE id = $1 AND sent = FALSE`
	tag, err := w.pool.Exec(ctx, update, args.ReminderID)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already delivered or deleted; nothing to do.
		log.Debug().Str("reminder_id", args.ReminderID).Msg("reminder already resolved")
		return nil
	}

	log.Info().
		Str("reminder_id", args.ReminderID).
		Str("user_id", args.UserID).
		Str("title", args.Title).
		Msg("reminder delivered")
	return nil
}
