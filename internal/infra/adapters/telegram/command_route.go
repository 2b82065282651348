package telegram

import (
	"context"

	"telegram-account-binding/internal/domain/model"
	"telegram-account-binding/internal/infra/logging"
	"telegram-account-binding/internal/infra/metrics"
)

type cmdHandler func(ctx context.Context, id model.Identity) error

func (r *RealTelegramBotAdapter) cmdRoutes() map[string]cmdHandler {
	return map[string]cmdHandler{
		"start": r.startCmdRoute,
		"menu":  r.startCmdRoute,
		"help":  r.helpCmdRoute,
	}
}

func (r *RealTelegramBotAdapter) handleCommand(ctx context.Context, command string, id model.Identity) error {
	fn, ok := r.cmdRoutes()[command]
	if !ok {
		return nil
	}
	metrics.IncTelegramUpdate("/" + command)
	return fn(ctx, id)
}

// startCmdRoute sends the greeting with the deep link. A failed send is logged only.
func (r *RealTelegramBotAdapter) startCmdRoute(ctx context.Context, id model.Identity) error {
	l := logging.With(ctx, r.log)
	screen := r.greeting.RenderGreeting(id)
	if err := r.client.SendButtons(ctx, id.ChatID, screen.Text, screen.Rows); err != nil {
		l.Error().Err(err).Msg("failed to send greeting")
		return nil
	}
	l.Info().Str("link", firstURL(screen)).Msg("user started bot")
	return nil
}

func (r *RealTelegramBotAdapter) helpCmdRoute(ctx context.Context, id model.Identity) error {
	if err := r.client.SendButtons(ctx, id.ChatID, r.greeting.Help(), nil); err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("failed to send help")
	}
	return nil
}
