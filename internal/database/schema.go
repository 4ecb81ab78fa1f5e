package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements create the LifeSync tables when they do not exist.
// River's own tables are managed by its migration tooling and are not
// included here.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		priority TEXT NOT NULL DEFAULT 'Medium',
		status TEXT NOT NULL DEFAULT 'pending',
		due_date TIMESTAMPTZ,
		tags TEXT[] NOT NULL DEFAULT '{}',
		ai_suggested BOOLEAN NOT NULL DEFAULT FALSE,
		ai_context TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS calendar_events (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		event_type TEXT NOT NULL DEFAULT 'personal',
		event_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		is_all_day BOOLEAN NOT NULL DEFAULT FALSE,
		location TEXT,
		ai_suggested BOOLEAN NOT NULL DEFAULT FALSE,
		ai_context TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		category TEXT NOT NULL DEFAULT 'Personal',
		priority TEXT NOT NULL DEFAULT 'Medium',
		status TEXT NOT NULL DEFAULT 'not-started',
		progress INT NOT NULL DEFAULT 0,
		target_date TIMESTAMPTZ,
		ai_suggested BOOLEAN NOT NULL DEFAULT FALSE,
		ai_context TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS mood_entries (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		entry_date TIMESTAMPTZ NOT NULL,
		mood TEXT NOT NULL,
		energy INT NOT NULL,
		notes TEXT,
		ai_context TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS conversation_turns (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reminders (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		source_type TEXT NOT NULL,
		source_id UUID NOT NULL,
		title TEXT NOT NULL,
		scheduled_for TIMESTAMPTZ NOT NULL,
		sent BOOLEAN NOT NULL DEFAULT FALSE,
		sent_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// EnsureSchema creates the application tables if they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
