package usecase_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"telegram-account-binding/internal/domain/ports/adapter"
	"telegram-account-binding/internal/infra/i18n"

	"github.com/rs/zerolog"
)

// ---- Mock TelegramBotAdapter ----

type SentMessage struct {
	ChatID int64
	Text   string
	Rows   [][]adapter.InlineButton
}

type MockTelegramBot struct {
	mu     sync.Mutex
	Sent   []SentMessage
	Edited []SentMessage

	SendButtonsFunc func(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error
}

var _ adapter.TelegramBotAdapter = (*MockTelegramBot)(nil)

func (m *MockTelegramBot) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	if m.SendButtonsFunc != nil {
		if err := m.SendButtonsFunc(ctx, chatID, text, rows); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{ChatID: chatID, Text: text, Rows: rows})
	return nil
}

func (m *MockTelegramBot) EditButtons(ctx context.Context, ref adapter.MessageRef, text string, rows [][]adapter.InlineButton) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Edited = append(m.Edited, SentMessage{ChatID: ref.ChatID, Text: text, Rows: rows})
	return nil
}

func (m *MockTelegramBot) AnswerCallback(ctx context.Context, callbackID string) error { return nil }

func (m *MockTelegramBot) SentMessages() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// ---- Mock Dispatcher ----

// InlineDispatcher runs each task synchronously on the caller's goroutine.
type InlineDispatcher struct {
	Err       error
	Submitted int
}

func (d *InlineDispatcher) Submit(task func(ctx context.Context) error) error {
	if d.Err != nil {
		return d.Err
	}
	d.Submitted++
	return task(context.Background())
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func newTestTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	return tr
}
