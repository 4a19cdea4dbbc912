package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/notesmart/notesmart/internal/logger"
)

// schemaStatements create the three tables and the secondary indexes.
// Every statement is idempotent so startup can run them unconditionally.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username VARCHAR(64) NOT NULL UNIQUE,
		email VARCHAR(120) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		category_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name VARCHAR(64) NOT NULL,
		user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		UNIQUE (user_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		note_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title VARCHAR(100) NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
		is_todo BOOLEAN NOT NULL DEFAULT FALSE,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		importance VARCHAR(20) NOT NULL DEFAULT 'normal',
		color VARCHAR(20) NOT NULL DEFAULT 'blue',
		category_id UUID REFERENCES categories(category_id) ON DELETE SET NULL,
		user_id UUID NOT NULL REFERENCES users(user_id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_category_id ON notes(category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notes_is_todo ON notes(is_todo)`,
}

// InitSchema creates tables and indexes if they do not exist yet.
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			logger.Log.Errorw("schema statement failed", "query", compact(stmt), "error", err)
			return err
		}
	}
	logger.Log.Info("database schema initialized")
	return nil
}
