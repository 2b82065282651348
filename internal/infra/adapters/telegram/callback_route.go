package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-account-binding/internal/domain/model"
	"telegram-account-binding/internal/domain/ports/adapter"
	"telegram-account-binding/internal/infra/logging"
	"telegram-account-binding/internal/infra/metrics"
	"telegram-account-binding/internal/usecase"
)

type cbHandler func(ctx context.Context, query *tgbotapi.CallbackQuery, id model.Identity) error

func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		usecase.ActionBackToMain:        r.menuCBRoute,
		usecase.ActionAlreadyRegistered: r.alreadyRegisteredCBRoute,
	}
}

func (r *RealTelegramBotAdapter) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, id model.Identity) error {
	fn, ok := r.cbRoutes()[query.Data]
	if !ok {
		metrics.IncTelegramUpdate("cb:unknown")
		logging.With(ctx, r.log).Debug().Str("data", query.Data).Msg("ignoring unknown callback")
		return nil
	}
	metrics.IncTelegramUpdate("cb:" + query.Data)
	return fn(ctx, query, id)
}

// menuCBRoute redraws the greeting in place with a freshly built link.
func (r *RealTelegramBotAdapter) menuCBRoute(ctx context.Context, query *tgbotapi.CallbackQuery, id model.Identity) error {
	screen := r.greeting.RenderGreeting(id)
	r.editInPlace(ctx, query, screen)
	logging.With(ctx, r.log).Info().Msg("user returned to main menu")
	return nil
}

func (r *RealTelegramBotAdapter) alreadyRegisteredCBRoute(ctx context.Context, query *tgbotapi.CallbackQuery, _ model.Identity) error {
	r.editInPlace(ctx, query, r.greeting.RenderWelcomeBack())
	logging.With(ctx, r.log).Info().Msg("user pressed already registered")
	return nil
}

func (r *RealTelegramBotAdapter) editInPlace(ctx context.Context, query *tgbotapi.CallbackQuery, screen usecase.Screen) {
	l := logging.With(ctx, r.log)
	if query.Message == nil || query.Message.Chat == nil {
		l.Warn().Str("data", query.Data).Msg("callback without a message to edit")
		return
	}
	ref := adapter.MessageRef{ChatID: query.Message.Chat.ID, MessageID: query.Message.MessageID}
	if err := r.client.EditButtons(ctx, ref, screen.Text, screen.Rows); err != nil {
		l.Error().Err(err).Int("message_id", ref.MessageID).Msg("failed to edit message")
	}
}

func firstURL(s usecase.Screen) string {
	for _, row := range s.Rows {
		for _, b := range row {
			if b.URL != "" {
				return b.URL
			}
		}
	}
	return ""
}
