package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"olx-telegram-bot/internal/collage"
	"olx-telegram-bot/internal/config"
	"olx-telegram-bot/internal/feed"
	"olx-telegram-bot/internal/metrics"
	"olx-telegram-bot/internal/notifier"
	"olx-telegram-bot/internal/pipeline"
	"olx-telegram-bot/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}

	logFile := setupLogging(cfg)
	if logFile != nil {
		defer logFile.Close()
	}

	slog.Info("Starting OLX channel bot")

	store, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("Critical error opening dedup store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		slog.Error("Critical error initializing Telegram bot", "error", err)
		os.Exit(1)
	}
	slog.Info("Telegram bot authorized", "username", bot.Self.UserName)

	p := pipeline.New(
		feed.New(cfg),
		store,
		collage.NewFetcher(cfg.DownloadWorkers, 10*time.Second),
		collage.NewComposer(cfg),
		notifier.New(bot, cfg),
	)

	if cfg.MetricsAddr != "" {
		go func() {
			slog.Info("Serving metrics", "addr", cfg.MetricsAddr)
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				slog.Error("Metrics server stopped", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("Scheduling polling cycles", "interval", cfg.PollInterval)

	// Initial fetch before the first tick. Cycles run inline in this
	// goroutine, so two cycles can never overlap; a tick arriving while a
	// cycle is still running is simply dropped by the ticker.
	p.RunCycle(ctx)

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Received shutdown signal")
			slog.Info("Application shutdown complete")
			return
		case <-ticker.C:
			p.RunCycle(ctx)
		}
	}
}

// setupLogging installs the default slog handler at the configured level,
// optionally teeing output into logs/bot.log. Returns the open log file,
// if any, so main can close it on exit.
func setupLogging(cfg *config.Config) *os.File {
	var w io.Writer = os.Stdout
	var logFile *os.File

	if cfg.LogToFile {
		if err := os.MkdirAll("logs", 0o755); err == nil {
			f, err := os.OpenFile(filepath.Join("logs", "bot.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err == nil {
				logFile = f
				w = io.MultiWriter(os.Stdout, f)
			}
		}
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(handler))
	return logFile
}
