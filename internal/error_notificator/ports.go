package error_notificator

import "context"

// Alert: сведения об оборванном вызове
type Alert struct {
	InvocationID string
	TelegramID   int64
	Err          error
	Details      string
}

type Notificator interface {
	// Notify: отправляет сообщение об ошибке админу
	Notify(ctx context.Context, a Alert) error
}

// PlainSender: то, чем бот умеет слать текст без разметки
type PlainSender interface {
	SendPlain(ctx context.Context, chatID int64, text string) error
}
