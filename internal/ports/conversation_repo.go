package ports

import "context"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationRecord: одна строка conversations, append-only
type ConversationRecord struct {
	TelegramUserID int64  `json:"telegram_user_id"`
	Message        string `json:"message"`
	Role           Role   `json:"role"`
}

type ConversationRepo interface {
	// AppendConversation пишет все записи одной операцией, порядок сохраняется
	AppendConversation(ctx context.Context, records []ConversationRecord) error
}

// Store: всё, что нужно вебхуку от хранилища
type Store interface {
	UserRepo
	ConversationRepo
	Close() error
}
