package ports

import "context"

// ChatUser: отправитель из Telegram, ключ: telegram_id
type ChatUser struct {
	TelegramID int64   `json:"telegram_id"`
	Username   *string `json:"username"`
	FirstName  string  `json:"first_name"`
	LastName   *string `json:"last_name"`
}

type UserRepo interface {
	// UpsertUser: insert-or-update по telegram_id, last-write-wins
	UpsertUser(ctx context.Context, u ChatUser) error
}
