package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"telegram-account-binding/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local/dev testing.
// It logs messages instead of sending real Telegram messages.
type NoopBotAdapter struct {
	log   *zerolog.Logger
	delay time.Duration
}

// NewNoopBotAdapter constructs the noop adapter.
func NewNoopBotAdapter(logger *zerolog.Logger) *NoopBotAdapter {
	compLog := logger.With().Str("component", "NoopTelegram").Logger()
	return &NoopBotAdapter{log: &compLog, delay: 100 * time.Millisecond}
}

// wait simulates slight processing time and respects ctx.
func (b *NoopBotAdapter) wait(ctx context.Context) error {
	select {
	case <-time.After(b.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *NoopBotAdapter) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	if err := b.wait(ctx); err != nil {
		return err
	}
	b.log.Info().Int64("chat_id", chatID).Str("text", text).Interface("buttons", rows).Msg("send")
	return nil
}

func (b *NoopBotAdapter) EditButtons(ctx context.Context, ref adapter.MessageRef, text string, rows [][]adapter.InlineButton) error {
	if err := b.wait(ctx); err != nil {
		return err
	}
	b.log.Info().Int64("chat_id", ref.ChatID).Int("message_id", ref.MessageID).Str("text", text).Interface("buttons", rows).Msg("edit")
	return nil
}

func (b *NoopBotAdapter) AnswerCallback(ctx context.Context, callbackID string) error {
	b.log.Info().Str("callback_id", callbackID).Msg("answer callback")
	return nil
}
