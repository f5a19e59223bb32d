package infra

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Vovarama1992/zara_bot/internal/ports"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore: локальное хранилище для разработки
func NewSQLiteStore(ctx context.Context, path string) (ports.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// один файл: один писатель
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	if err := migrate(ctx, db, sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (r *sqliteStore) UpsertUser(ctx context.Context, u ports.ChatUser) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO telegram_users (telegram_id, username, first_name, last_name, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (telegram_id)
		DO UPDATE SET
			username   = excluded.username,
			first_name = excluded.first_name,
			last_name  = excluded.last_name,
			updated_at = CURRENT_TIMESTAMP
	`, u.TelegramID, nullString(u.Username), u.FirstName, nullString(u.LastName))
	if err != nil {
		return fmt.Errorf("upsert telegram_users id=%d: %w", u.TelegramID, err)
	}
	return nil
}

func (r *sqliteStore) AppendConversation(ctx context.Context, records []ports.ConversationRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO conversations (telegram_user_id, message, role)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare conversations insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.TelegramUserID, rec.Message, string(rec.Role)); err != nil {
			return fmt.Errorf("insert conversations role=%s: %w", rec.Role, err)
		}
	}

	return tx.Commit()
}

func (r *sqliteStore) Close() error {
	return r.db.Close()
}
