package telegram

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vovarama1992/zara_bot/internal/ports"
)

// ErrIgnored: апдейт не несёт текстового сообщения; его надо подтвердить и забыть
var ErrIgnored = errors.New("update ignored")

// Inbound: нормализованное текстовое сообщение из апдейта
type Inbound struct {
	UpdateID   int64
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	ChatID     int64
	Text       string
}

// ParseUpdate разбирает тело вебхука. Всё, что не является текстовым
// сообщением с отправителем и чатом, возвращается как ErrIgnored.
func ParseUpdate(body []byte) (Inbound, error) {
	var upd tgbotapi.Update
	if err := json.Unmarshal(body, &upd); err != nil {
		return Inbound{}, fmt.Errorf("%w: decode update: %v", ErrIgnored, err)
	}

	msg := upd.Message
	switch {
	case msg == nil:
		return Inbound{}, fmt.Errorf("%w: update %d has no message", ErrIgnored, upd.UpdateID)
	case msg.Text == "":
		return Inbound{}, fmt.Errorf("%w: update %d has no text", ErrIgnored, upd.UpdateID)
	case msg.From == nil:
		return Inbound{}, fmt.Errorf("%w: update %d has no sender", ErrIgnored, upd.UpdateID)
	case msg.Chat == nil:
		return Inbound{}, fmt.Errorf("%w: update %d has no chat", ErrIgnored, upd.UpdateID)
	}

	return Inbound{
		UpdateID:   int64(upd.UpdateID),
		TelegramID: msg.From.ID,
		Username:   msg.From.UserName,
		FirstName:  msg.From.FirstName,
		LastName:   msg.From.LastName,
		ChatID:     msg.Chat.ID,
		Text:       msg.Text,
	}, nil
}

// ChatUser: запись для telegram_users; пустые необязательные поля уходят как NULL
func (in Inbound) ChatUser() ports.ChatUser {
	return ports.ChatUser{
		TelegramID: in.TelegramID,
		Username:   nullable(in.Username),
		FirstName:  in.FirstName,
		LastName:   nullable(in.LastName),
	}
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
