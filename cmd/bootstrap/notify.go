package bootstrap

import (
	"gearlend/internal/infra/notify"
	"gearlend/internal/infra/remind"
	"gearlend/internal/pkg/config"
	"gearlend/internal/usecase/commands"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		notify.NewNotifier,
		NewReminderDedup,
	),
)

func NewReminderDedup(client *redis.Client, cfg config.Config) commands.ReminderDedup {
	return remind.NewDedup(client, cfg.Reminder.DedupTTL)
}
