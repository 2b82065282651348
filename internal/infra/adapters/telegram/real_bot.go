package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-account-binding/internal/config"
	"telegram-account-binding/internal/domain/model"
	"telegram-account-binding/internal/infra/logging"
	"telegram-account-binding/internal/usecase"
)

// RealTelegramBotAdapter long-polls Telegram and answers commands and button presses.
// All outbound calls go through the shared Client.
type RealTelegramBotAdapter struct {
	client   *Client
	greeting usecase.GreetingUseCase
	log      *zerolog.Logger

	// updateWorkers is how many goroutines process updates; 1 keeps them in arrival order.
	updateWorkers int

	mu            sync.Mutex
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, client *Client, greeting usecase.GreetingUseCase, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if client == nil {
		return nil, errors.New("telegram client is nil")
	}
	if greeting == nil {
		return nil, errors.New("greeting usecase is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	compLog := logger.With().Str("component", "TelegramBot").Logger()
	return &RealTelegramBotAdapter{
		client:        client,
		greeting:      greeting,
		log:           &compLog,
		updateWorkers: workers,
	}, nil
}

// StartPolling begins polling Telegram for updates. It runs until ctx is canceled.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}

	updates := r.client.api.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.mu.Lock()
	r.cancelPolling = cancel
	r.mu.Unlock()

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case update, ok := <-updateChan:
					if !ok {
						return
					}
					r.safeHandle(ctx, workerID, update)
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}

	// Dispatcher goroutine: feed updates into updateChan
	go func() {
		defer close(updateChan)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case updateChan <- update:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	r.log.Info().Int("workers", r.updateWorkers).Msg("telegram polling started")
	<-ctx.Done()
	r.client.api.StopReceivingUpdates()
	wg.Wait()
	r.log.Info().Msg("telegram polling stopped")
	return nil
}

// StopPolling stops the polling loop gracefully.
func (r *RealTelegramBotAdapter) StopPolling() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) safeHandle(ctx context.Context, workerID int, update tgbotapi.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Int("worker", workerID).Int("update_id", update.UpdateID).Interface("panic", rec).Msg("update handler panicked")
		}
	}()
	if err := r.handleUpdate(ctx, update); err != nil {
		r.log.Error().Int("worker", workerID).Int("update_id", update.UpdateID).Err(err).Msg("error handling update")
	}
}

// handleUpdate processes a single Telegram update.
func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil || !msg.IsCommand() {
		return nil
	}
	id, err := model.NewIdentity(msg.From.ID, msg.Chat.ID, msg.From.FirstName)
	if err != nil {
		return err
	}
	ctx = logging.WithChatID(logging.WithTgID(ctx, id.UserID), id.ChatID)
	return r.handleCommand(ctx, msg.Command(), id)
}

// handleQuery acknowledges the press first, then routes on the callback data.
func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}
	if err := r.client.AnswerCallback(ctx, query.ID); err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Msg("failed to acknowledge callback")
	}

	chatID := query.From.ID
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	}
	id, err := model.NewIdentity(query.From.ID, chatID, query.From.FirstName)
	if err != nil {
		return err
	}
	ctx = logging.WithChatID(logging.WithTgID(ctx, id.UserID), id.ChatID)
	return r.handleCallback(ctx, query, id)
}
