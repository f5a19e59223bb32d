package infra

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Vovarama1992/zara_bot/internal/ports"
)

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore открывает пул, пингует и накатывает схему
func NewPostgresStore(ctx context.Context, dsn string) (ports.Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := migrate(ctx, db, postgresSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &postgresStore{db: db}, nil
}

func (r *postgresStore) UpsertUser(ctx context.Context, u ports.ChatUser) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO telegram_users (telegram_id, username, first_name, last_name, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (telegram_id)
		DO UPDATE SET
			username   = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name  = EXCLUDED.last_name,
			updated_at = NOW()
	`, u.TelegramID, nullString(u.Username), u.FirstName, nullString(u.LastName))
	if err != nil {
		return fmt.Errorf("upsert telegram_users id=%d: %w", u.TelegramID, err)
	}
	return nil
}

// AppendConversation: один INSERT на все записи; ORDER BY ord сохраняет
// порядок id, clock_timestamp() даёт разные created_at внутри пары
func (r *postgresStore) AppendConversation(ctx context.Context, records []ports.ConversationRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]int64, len(records))
	messages := make([]string, len(records))
	roles := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.TelegramUserID
		messages[i] = rec.Message
		roles[i] = string(rec.Role)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversations (telegram_user_id, message, role, created_at)
		SELECT u.telegram_user_id, u.message, u.role, clock_timestamp()
		FROM unnest($1::bigint[], $2::text[], $3::text[])
			WITH ORDINALITY AS u(telegram_user_id, message, role, ord)
		ORDER BY u.ord
	`, pq.Array(ids), pq.Array(messages), pq.Array(roles))
	if err != nil {
		return fmt.Errorf("insert conversations: %w", err)
	}
	return nil
}

func (r *postgresStore) Close() error {
	return r.db.Close()
}
