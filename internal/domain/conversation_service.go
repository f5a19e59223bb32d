package domain

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/zara_bot/internal/ports"
)

type ConversationService struct {
	repo ports.ConversationRepo
}

func NewConversationService(repo ports.ConversationRepo) *ConversationService {
	return &ConversationService{repo: repo}
}

// RecordExchange: пара user → assistant одной записью
func (s *ConversationService) RecordExchange(ctx context.Context, telegramID int64, userText, reply string) error {
	records := []ports.ConversationRecord{
		{TelegramUserID: telegramID, Message: userText, Role: ports.RoleUser},
		{TelegramUserID: telegramID, Message: reply, Role: ports.RoleAssistant},
	}
	if err := s.repo.AppendConversation(ctx, records); err != nil {
		return fmt.Errorf("record exchange tg=%d: %w", telegramID, err)
	}
	return nil
}
