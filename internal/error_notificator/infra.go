package error_notificator

import (
	"context"
	"fmt"
)

type Infra struct {
	sender PlainSender
	chatID int64
}

func NewInfra(sender PlainSender, adminChatID int64) *Infra {
	return &Infra{sender: sender, chatID: adminChatID}
}

func (i *Infra) Notify(ctx context.Context, a Alert) error {
	text := fmt.Sprintf(
		"❗ Ошибка в боте Zara\n\nInvocation: %s\nПользователь: %d\n\nОшибка: %v\n\nДетали: %s",
		a.InvocationID,
		a.TelegramID,
		a.Err,
		a.Details,
	)

	if err := i.sender.SendPlain(ctx, i.chatID, text); err != nil {
		return fmt.Errorf("notify admin chat=%d: %w", i.chatID, err)
	}
	return nil
}
