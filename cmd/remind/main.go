// Command remind runs one reminder sweep and exits. It is meant to be
// invoked by cron or a scheduler once per day.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"gearlend/internal/handler/middleware"
	"gearlend/internal/infra/db"
	"gearlend/internal/infra/notify"
	"gearlend/internal/infra/remind"
	"gearlend/internal/infra/repository"
	"gearlend/internal/pkg/clock"
	"gearlend/internal/pkg/config"
	"gearlend/internal/usecase/commands"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Log).GetSlogLogger()

	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	sweep := commands.NewReminderUseCase(
		repository.NewReservationRepository(pool, logger),
		remind.NewDedup(redisClient, cfg.Reminder.DedupTTL),
		notify.NewNotifier(cfg.Email, logger),
		cfg.Reminder,
		clock.NewRealClock(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := sweep.SendDueReminders(ctx)
	if err != nil {
		logger.Error("reminder sweep failed", "error", err)
		os.Exit(1)
	}

	logger.Info("reminder sweep finished",
		"scanned", result.Scanned,
		"sent", result.Sent,
		"deduped", result.Deduped,
		"failed", result.Failed,
	)
}
