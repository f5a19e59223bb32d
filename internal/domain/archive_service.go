package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vovarama1992/zara_bot/internal/ports"
)

type archiveService struct {
	storage ports.ObjectStorage
}

func NewArchiveService(storage ports.ObjectStorage) ports.ExchangeArchive {
	return &archiveService{storage: storage}
}

// ObjectKey: путь в бакете: <telegram_id>/<дата>/<update_id>.json
func ObjectKey(snap ports.ExchangeSnapshot) string {
	at := snap.RepliedAt
	if at.IsZero() {
		at = time.Now()
	}
	return fmt.Sprintf("%d/%s/%d.json", snap.TelegramID, at.UTC().Format("2006-01-02"), snap.UpdateID)
}

func (s *archiveService) Save(ctx context.Context, snap ports.ExchangeSnapshot) (string, error) {
	if snap.RepliedAt.IsZero() {
		snap.RepliedAt = time.Now().UTC()
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	return s.storage.PutObject(ctx, ObjectKey(snap), body, "application/json")
}
