package notify

import "context"

// Notifier delivers a plain-text message to one operator chat.
type Notifier interface {
	Deliver(ctx context.Context, chatID int64, text string) error
}
