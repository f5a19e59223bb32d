package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vovarama1992/zara_bot/internal/ports"
)

var ErrNoIdentity = errors.New("chat user has no telegram id")

type UserRegistry struct {
	repo ports.UserRepo
}

func NewUserRegistry(repo ports.UserRepo) *UserRegistry {
	return &UserRegistry{repo: repo}
}

// Record: upsert отправителя; без telegram_id ничего не пишем
func (s *UserRegistry) Record(ctx context.Context, u ports.ChatUser) error {
	if u.TelegramID == 0 {
		return ErrNoIdentity
	}
	if err := s.repo.UpsertUser(ctx, u); err != nil {
		return fmt.Errorf("record user tg=%d: %w", u.TelegramID, err)
	}
	return nil
}
