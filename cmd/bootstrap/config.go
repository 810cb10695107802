package bootstrap

import (
	"gearlend/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.EmailConfig { return cfg.Email },
		func(cfg config.Config) config.ReminderConfig { return cfg.Reminder },
	),
)
