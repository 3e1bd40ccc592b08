package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"olx-notifier/config"
	"olx-notifier/notifier"
	"olx-notifier/scraper/olx"
	"olx-notifier/services"
	"olx-notifier/storage"
	"olx-notifier/utils"
)

func main() {
	start := time.Now()
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== OLX Rent Notifier starting ===")
	logger.Info("Config — price band: [%.0f, %.0f] | db: %s | chats: %d | delay: %dms",
		cfg.MinPrice, cfg.MaxPrice, cfg.DBName, len(cfg.TelegramChatIDs), cfg.SendDelayMs)

	store, err := storage.OpenAdStore(cfg.DBName)
	if err != nil {
		logger.Error("Failed to open ad store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	sink, err := storage.NewCSVStore(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to init flat stores: %v", err)
		os.Exit(1)
	}

	tg, err := notifier.New(cfg.TelegramBotKey, cfg.SendDelay(), logger)
	if err != nil {
		logger.Error("Failed to authorize Telegram bot: %v", err)
		os.Exit(1)
	}

	pipeline := services.NewPipeline(
		olx.New(cfg, logger), store, sink, tg, cfg.TelegramChatIDs, cfg.FeedTag, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- pipeline.Run(ctx) }()

	select {
	case <-ctx.Done():
		logger.Info("=== Run has been stopped manually ===")
	case err := <-done:
		if err != nil {
			logger.Error("Run failed: %v", err)
			logger.Info("=== Operating time is %.2f seconds ===", time.Since(start).Seconds())
			os.Exit(1)
		}
		logger.Info("=== Run has been finished successfully ===")
	}
	logger.Info("=== Operating time is %.2f seconds ===", time.Since(start).Seconds())
}
