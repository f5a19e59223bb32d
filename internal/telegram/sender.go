package telegram

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender: отправка ответов через Bot API
type Sender struct {
	bot *tgbotapi.BotAPI
}

// NewSender создаёт клиента Bot API. endpoint в формате
// tgbotapi.APIEndpoint ("https://api.telegram.org/bot%s/%s"); пустой значит боевой.
// Конструктор делает getMe, так что неверный токен виден сразу.
func NewSender(token, endpoint string, client *http.Client) (*Sender, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Sender{bot: bot}, nil
}

func (s *Sender) Username() string {
	return s.bot.Self.UserName
}

// SendReply отправляет текст в чат с parse_mode=Markdown
func (s *Sender) SendReply(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage chat=%d: %w", chatID, err)
	}
	return nil
}

// SendPlain: без parse_mode, для служебных сообщений с произвольным текстом
func (s *Sender) SendPlain(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("telegram sendMessage chat=%d: %w", chatID, err)
	}
	return nil
}

// RegisterWebhook: аналог ручного curl .../setWebhook -d url=...
func (s *Sender) RegisterWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	if _, err := s.bot.Request(wh); err != nil {
		return fmt.Errorf("telegram setWebhook: %w", err)
	}
	return nil
}
