package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shred03/file-sequence-bot/internal/alerts"
	"github.com/shred03/file-sequence-bot/internal/bot"
	"github.com/shred03/file-sequence-bot/internal/config"
	"github.com/shred03/file-sequence-bot/internal/delivery"
	"github.com/shred03/file-sequence-bot/internal/logger"
	"github.com/shred03/file-sequence-bot/internal/retry"
	"github.com/shred03/file-sequence-bot/internal/session"
	"github.com/shred03/file-sequence-bot/internal/stats"
)

func init() {
	godotenv.Load()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	statsStore, err := stats.Open(cfg.StatsPath)
	if err != nil {
		logger.Fatal("failed to open stats store", "error", err, "path", cfg.StatsPath)
	}
	defer statsStore.Close()

	b, err := bot.New(bot.Config{
		Provider: cfg.Bot.Provider,
		Token:    cfg.Bot.Token,
	})
	if err != nil {
		logger.Fatal("failed to create bot", "error", err)
	}

	store := session.NewStore()

	engine := delivery.NewEngine(b, delivery.Config{
		BatchSize:  cfg.Delivery.BatchSize,
		ItemDelay:  cfg.Delivery.ItemDelay(),
		BatchDelay: cfg.Delivery.BatchDelay(),
		Retry: retry.Policy{
			MaxAttempts: cfg.Delivery.MaxAttempts,
			BaseDelay:   cfg.Delivery.RetryDelay(),
		},
		FailureLimit: cfg.Delivery.FailureLimit,
	}, func(chatID int64, batch, batches, sent, total int) {
		msg := fmt.Sprintf("Batch %d/%d done, %d/%d file(s) delivered...", batch, batches, sent, total)
		if err := b.Send(chatID, msg); err != nil {
			logger.Error("progress message failed", "error", err, "chat", chatID)
		}
	})

	var alert session.AlertFunc
	if cfg.OwnerID != 0 {
		alerter := alerts.New(func(message string) {
			if err := b.Send(cfg.OwnerID, message); err != nil {
				logger.Error("owner alert failed", "error", err)
			}
		}, time.Hour)
		alert = alerter.Alert
		logger.Info("owner alerts enabled", "owner", cfg.OwnerID)
	}

	manager := session.NewManager(store, engine, statsStore, alert, session.ManagerConfig{
		MaxItems: cfg.Session.MaxItems,
		StatsRetry: retry.Policy{
			MaxAttempts: cfg.Delivery.MaxAttempts,
			BaseDelay:   cfg.Delivery.RetryDelay(),
		},
	})

	b.SetHandler(bot.NewHandler(manager, store, statsStore, cfg.OwnerID, cfg.Delivery.ProgressInterval))

	reaper, err := session.NewReaper(store, cfg.Session.IdleTimeout(), cfg.Session.SweepInterval())
	if err != nil {
		logger.Fatal("failed to create reaper", "error", err)
	}
	reaper.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			logger.Error("bot stopped", "error", err)
		}
	}()

	logger.Info("sequence bot started",
		"provider", cfg.Bot.Provider,
		"stats", cfg.StatsPath,
		"batch_size", cfg.Delivery.BatchSize,
		"max_items", cfg.Session.MaxItems,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	cancel()
	reaper.Stop()
}
