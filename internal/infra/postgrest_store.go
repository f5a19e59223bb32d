package infra

import (
	"context"
	"fmt"
	"strings"

	"github.com/supabase-community/postgrest-go"

	"github.com/Vovarama1992/zara_bot/internal/ports"
)

// postgrestStore пишет в Supabase через /rest/v1 с service-role ключом
type postgrestStore struct {
	client *postgrest.Client
}

func NewPostgrestStore(baseURL, serviceKey string) (ports.Store, error) {
	client := postgrest.NewClient(strings.TrimRight(baseURL, "/")+"/rest/v1", "public", map[string]string{
		"apikey":        serviceKey,
		"Authorization": "Bearer " + serviceKey,
	})
	if client.ClientError != nil {
		return nil, fmt.Errorf("postgrest client: %w", client.ClientError)
	}
	return &postgrestStore{client: client}, nil
}

type postgrestUser struct {
	TelegramID int64   `json:"telegram_id"`
	Username   *string `json:"username"`
	FirstName  string  `json:"first_name"`
	LastName   *string `json:"last_name"`
}

type postgrestConversation struct {
	TelegramUserID int64  `json:"telegram_user_id"`
	Message        string `json:"message"`
	Role           string `json:"role"`
}

// postgrest-go не принимает context, поэтому отменённый запрос отсекаем до вызова
func (s *postgrestStore) UpsertUser(ctx context.Context, u ports.ChatUser) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	row := postgrestUser{
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
	}
	_, _, err := s.client.From("telegram_users").
		Upsert(row, "telegram_id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("upsert telegram_users id=%d: %w", u.TelegramID, err)
	}
	return nil
}

// AppendConversation: один bulk-insert массивом, порядок элементов = порядок строк
func (s *postgrestStore) AppendConversation(ctx context.Context, records []ports.ConversationRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([]postgrestConversation, 0, len(records))
	for _, rec := range records {
		rows = append(rows, postgrestConversation{
			TelegramUserID: rec.TelegramUserID,
			Message:        rec.Message,
			Role:           string(rec.Role),
		})
	}

	_, _, err := s.client.From("conversations").
		Insert(rows, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("insert conversations: %w", err)
	}
	return nil
}

func (s *postgrestStore) Close() error {
	return nil
}
