package ports

import (
	"context"
	"time"
)

// ObjectStorage: низкоуровневый клиент к S3-совместимому хранилищу
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) (objectURL string, err error)
}

// ExchangeSnapshot: то, что уходит в архив после успешного ответа
type ExchangeSnapshot struct {
	UpdateID   int64     `json:"update_id"`
	TelegramID int64     `json:"telegram_id"`
	ChatID     int64     `json:"chat_id"`
	Model      string    `json:"model"`
	UserText   string    `json:"user_text"`
	Reply      string    `json:"reply"`
	RepliedAt  time.Time `json:"replied_at"`
}

type ExchangeArchive interface {
	Save(ctx context.Context, snap ExchangeSnapshot) (string, error)
}
