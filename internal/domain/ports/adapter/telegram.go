// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

type InlineButton struct {
	Text string
	Data string
	URL  string
}

// MessageRef points at a message already in a chat, for in-place edits.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// TelegramBotAdapter is the single outbound handle shared by the update handler and
// the binding notifier.
type TelegramBotAdapter interface {
	SendButtons(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	EditButtons(ctx context.Context, ref MessageRef, text string, rows [][]InlineButton) error
	AnswerCallback(ctx context.Context, callbackID string) error
}
