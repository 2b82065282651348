package usecase

import (
	"context"
	"fmt"

	"telegram-account-binding/internal/domain"
	"telegram-account-binding/internal/domain/model"
	"telegram-account-binding/internal/domain/ports/adapter"
	"telegram-account-binding/internal/infra/i18n"
	"telegram-account-binding/internal/infra/logging"
	"telegram-account-binding/internal/infra/metrics"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Dispatcher runs tasks off the caller's goroutine. worker.Pool satisfies it.
type Dispatcher interface {
	Submit(task func(ctx context.Context) error) error
}

// Compile-time check
var _ BindingUseCase = (*bindingUC)(nil)

type BindingUseCase interface {
	// ScheduleNotification queues the confirmation for ev and returns its job id.
	// It never waits for the message to be delivered.
	ScheduleNotification(ctx context.Context, ev model.BindingEvent) (string, error)
	// NotifyBindingSuccess sends the confirmation now. Delivery errors are logged, not returned.
	NotifyBindingSuccess(ctx context.Context, ev model.BindingEvent)
}

type bindingUC struct {
	bot      adapter.TelegramBotAdapter
	dispatch Dispatcher
	tr       *i18n.Translator
	log      *zerolog.Logger
}

func NewBindingUseCase(bot adapter.TelegramBotAdapter, dispatch Dispatcher, tr *i18n.Translator, logger *zerolog.Logger) *bindingUC {
	compLog := logger.With().Str("component", "BindingUC").Logger()
	return &bindingUC{bot: bot, dispatch: dispatch, tr: tr, log: &compLog}
}

func (b *bindingUC) ScheduleNotification(ctx context.Context, ev model.BindingEvent) (string, error) {
	if ev.ChatID == 0 {
		return "", domain.ErrChatIDRequired
	}
	jobID := ulid.Make().String()
	traceID := logging.TraceID(ctx)

	err := b.dispatch.Submit(func(taskCtx context.Context) error {
		b.NotifyBindingSuccess(logging.WithJobID(logging.WithTraceID(taskCtx, traceID), jobID), ev)
		return nil
	})
	if err != nil {
		metrics.IncBindingNotification("rejected")
		return "", fmt.Errorf("schedule binding notification: %w", err)
	}

	logging.With(ctx, b.log).Info().
		Str("job_id", jobID).
		Int64("chat_id", ev.ChatID).
		Msg("binding notification scheduled")
	return jobID, nil
}

func (b *bindingUC) NotifyBindingSuccess(ctx context.Context, ev model.BindingEvent) {
	l := logging.With(logging.WithChatID(ctx, ev.ChatID), b.log)
	defer logging.TraceDuration(l, "BindingUC.NotifyBindingSuccess")()

	name := ev.NameOr(b.tr.T("default_user_name"))
	rows := [][]adapter.InlineButton{{{Text: b.tr.T("btn_back_to_main"), Data: ActionBackToMain}}}

	if err := b.bot.SendButtons(ctx, ev.ChatID, b.tr.T("binding_success", name), rows); err != nil {
		metrics.IncBindingNotification("failed")
		l.Error().Err(err).Msg("failed to send binding confirmation")
		return
	}
	metrics.IncBindingNotification("sent")
	l.Info().Str("user_name", name).Msg("binding confirmation sent")
}
