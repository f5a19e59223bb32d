package infra

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS telegram_users (
		telegram_id BIGINT PRIMARY KEY,
		username    TEXT,
		first_name  TEXT NOT NULL,
		last_name   TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id               BIGSERIAL PRIMARY KEY,
		telegram_user_id BIGINT NOT NULL,
		message          TEXT NOT NULL,
		role             TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS conversations_user_idx
		ON conversations (telegram_user_id, id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS telegram_users (
		telegram_id INTEGER PRIMARY KEY,
		username    TEXT,
		first_name  TEXT NOT NULL,
		last_name   TEXT,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		telegram_user_id INTEGER NOT NULL,
		message          TEXT NOT NULL,
		role             TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
		created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS conversations_user_idx
		ON conversations (telegram_user_id, id)`,
}

func migrate(ctx context.Context, db *sql.DB, stmts []string) error {
	for i, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate step %d: %w", i, err)
		}
	}
	return nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}
