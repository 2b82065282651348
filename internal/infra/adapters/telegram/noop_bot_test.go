//go:build !integration

package telegram

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"telegram-account-binding/internal/domain/ports/adapter"
)

func TestNoopBotAdapter(t *testing.T) {
	t.Run("should log instead of sending", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)
		b := NewNoopBotAdapter(&logger)
		b.delay = 0

		rows := [][]adapter.InlineButton{{{Text: "go", URL: "http://localhost:3000/signup"}}}
		if err := b.SendButtons(context.Background(), 100, "hello Ann", rows); err != nil {
			t.Fatalf("send: %v", err)
		}
		if !strings.Contains(buf.String(), "hello Ann") || !strings.Contains(buf.String(), `"chat_id":100`) {
			t.Errorf("log line missing message details: %s", buf.String())
		}
	})

	t.Run("should honor a canceled context", func(t *testing.T) {
		logger := zerolog.Nop()
		b := NewNoopBotAdapter(&logger)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := b.EditButtons(ctx, adapter.MessageRef{ChatID: 1, MessageID: 2}, "x", nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	})
}
