package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-account-binding/internal/domain/ports/adapter"
	"telegram-account-binding/internal/infra/metrics"
)

// botAPI is the subset of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

var _ adapter.TelegramBotAdapter = (*Client)(nil)

// Client is the outbound Telegram handle. It holds no mutable state and is safe
// for concurrent use by the update handler and the binding notifier.
type Client struct {
	api botAPI
}

// NewClient authenticates against the Bot API with token.
func NewClient(token string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Client{api: bot}, nil
}

func newClientWithAPI(api botAPI) *Client { return &Client{api: api} }

// SendButtons sends a message with inline buttons using tgbotapi.
// - If btn.URL is set, the button opens a link
// - Else if btn.Data is set, the button sends callback data
// - Else a safe fallback uses btn.Text as callback data
func (c *Client) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := tgbotapi.NewMessage(chatID, text)
	if kb, ok := inlineKeyboard(rows); ok {
		msg.ReplyMarkup = kb
	}
	if _, err := c.api.Send(msg); err != nil {
		metrics.IncTelegramAPIError("send")
		return fmt.Errorf("send message to chat %d: %w", chatID, err)
	}
	return nil
}

// EditButtons replaces the text and keyboard of an existing message.
func (c *Client) EditButtons(ctx context.Context, ref adapter.MessageRef, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	if kb, ok := inlineKeyboard(rows); ok {
		edit.ReplyMarkup = &kb
	}
	if _, err := c.api.Request(edit); err != nil {
		metrics.IncTelegramAPIError("edit")
		return fmt.Errorf("edit message %d in chat %d: %w", ref.MessageID, ref.ChatID, err)
	}
	return nil
}

// AnswerCallback stops the client-side spinner on a pressed button.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	if _, err := c.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		metrics.IncTelegramAPIError("answer")
		return fmt.Errorf("answer callback %s: %w", callbackID, err)
	}
	return nil
}

func inlineKeyboard(rows [][]adapter.InlineButton) (tgbotapi.InlineKeyboardMarkup, bool) {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			r = append(r, kb)
		}
		kbRows = append(kbRows, r)
	}
	if len(kbRows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...), true
}
