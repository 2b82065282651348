// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"telegram-account-binding/internal/config"
	"telegram-account-binding/internal/domain/ports/adapter"
	tele "telegram-account-binding/internal/infra/adapters/telegram"
	"telegram-account-binding/internal/infra/i18n"
	"telegram-account-binding/internal/infra/logging"
	"telegram-account-binding/internal/infra/metrics"
	"telegram-account-binding/internal/infra/web"
	"telegram-account-binding/internal/infra/worker"
	"telegram-account-binding/internal/usecase"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "developer mode: console logs, Telegram calls are logged instead of sent")
	flag.Parse()

	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// .env is optional; real environment variables still win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		boot.Warn().Err(err).Msg("could not read .env")
	}

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		boot.Fatal().Err(err).Msg("config")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Telegram messages are logged, not sent")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit, cfg.Site.LinkMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Texts and links ----
	tr, err := i18n.NewTranslator(i18n.LocalesFS, cfg.I18n.Lang)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}
	links, err := usecase.NewDeepLinkBuilder(cfg.Site.BaseURL, cfg.Site.LinkMode)
	if err != nil {
		logger.Fatal().Err(err).Msg("deep links")
	}
	greetingUC := usecase.NewGreetingUseCase(links, tr)

	// ---- Telegram ----
	// One outbound handle shared by the update handler and the binding notifier.
	var (
		notifier adapter.TelegramBotAdapter
		bot      *tele.RealTelegramBotAdapter
	)
	if cfg.Runtime.Dev {
		notifier = tele.NewNoopBotAdapter(logger)
	} else {
		client, err := tele.NewClient(cfg.Bot.Token)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram")
		}
		notifier = client
		bot, err = tele.NewRealTelegramBotAdapter(&cfg.Bot, client, greetingUC, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram")
		}
	}

	// ---- Delivery pool ----
	pool := worker.NewPool(cfg.Worker.Size, cfg.Worker.Queue, logger)
	pool.Start(ctx)

	bindingUC := usecase.NewBindingUseCase(notifier, pool, tr, logger)

	if bot != nil {
		go func() {
			if err := bot.StartPolling(ctx); err != nil {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// ---- HTTP ----
	srv := web.NewServer(bindingUC, logger)
	srvErr := make(chan error, 1)
	go func() { srvErr <- srv.ListenAndServe(cfg.HTTP.Port) }()

	logger.Info().
		Str("version", version).
		Str("site", cfg.Site.BaseURL).
		Str("link_mode", cfg.Site.LinkMode).
		Str("lang", tr.Lang()).
		Int("http_port", cfg.HTTP.Port).
		Msg("bot started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown requested")
	case err := <-srvErr:
		if err != nil {
			logger.Error().Err(err).Msg("http server failed")
		}
		stop()
	}

	// ---- Graceful shutdown ----
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if bot != nil {
		bot.StopPolling()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	if err := pool.Stop(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("pending binding notifications dropped")
	}
	logger.Info().Msg("bye")
}
