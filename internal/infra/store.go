package infra

import (
	"context"
	"errors"

	"github.com/Vovarama1992/zara_bot/internal/config"
	"github.com/Vovarama1992/zara_bot/internal/ports"
)

var ErrStoreDisabled = errors.New("persistence store is not configured")

// OpenStore выбирает бэкенд по конфигу. Отсутствие хранилища не фатально:
// возвращается disabledStore, и каждая запись логируется как предупреждение.
func OpenStore(ctx context.Context, cfg config.Config) (ports.Store, error) {
	switch cfg.StoreDriver() {
	case config.StorePostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.StoreSupabase:
		return NewPostgrestStore(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	case config.StoreSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	}
	return DisabledStore(), nil
}

func DisabledStore() ports.Store { return disabledStore{} }

type disabledStore struct{}

func (disabledStore) UpsertUser(context.Context, ports.ChatUser) error {
	return ErrStoreDisabled
}

func (disabledStore) AppendConversation(context.Context, []ports.ConversationRecord) error {
	return ErrStoreDisabled
}

func (disabledStore) Close() error { return nil }
