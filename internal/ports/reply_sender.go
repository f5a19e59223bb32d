package ports

import "context"

type ReplySender interface {
	SendReply(ctx context.Context, chatID int64, text string) error
}
