package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("Homework Status Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	baseLogger := logger.Get().WithField("app", "homework_status_bot")

	if !config.CheckTokens(cfg, baseLogger) {
		baseLogger.Fatal("Required environment variables are missing, the bot cannot start")
	}

	baseLogger.WithFields(logrus.Fields{
		"environment":     cfg.Environment,
		"retry_period":    cfg.RetryPeriod.String(),
		"request_timeout": cfg.RequestTimeout.String(),
		"poll_cron":       cfg.PollCron,
	}).Info("Configuration loaded")

	// Initialize Telegram Bot (send-only: no poller, no handlers)
	bot, err := telegram.NewSendOnlyBot(cfg.TelegramToken, cfg.TelegramAPIURL, cfg.RequestTimeout)
	if err != nil {
		baseLogger.WithError(err).Fatal("Could not create Telegram bot")
	}
	telegramClient := telegram.NewTelebotAdapter(bot)

	practicumClient := practicum.NewClient(practicum.ClientConfig{
		Endpoint: cfg.Endpoint,
		Token:    cfg.PracticumToken,
		Timeout:  cfg.RequestTimeout,
	}, baseLogger)

	statusService := app.NewStatusService(practicumClient, telegramClient, cfg.TelegramChatID, cfg.RetryPeriod, baseLogger)
	baseLogger.Info("Status service initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.PollCron != "" {
		pollScheduler := scheduler.NewPollScheduler(statusService, cfg.PollCron, baseLogger)
		if err := pollScheduler.Start(ctx); err != nil {
			baseLogger.WithError(err).Fatal("Could not start poll scheduler")
		}
		<-ctx.Done() // Block until a signal is received
		baseLogger.Info("Shutting down application...")
		pollScheduler.Stop()
	} else {
		if err := statusService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			baseLogger.WithError(err).Error("Status polling stopped unexpectedly")
			os.Exit(1)
		}
		baseLogger.Info("Shutting down application...")
	}

	baseLogger.Info("Application shut down gracefully.")
}
