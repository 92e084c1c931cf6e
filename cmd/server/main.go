package main

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Lakshan2000610/hr-notification/config"
	"github.com/Lakshan2000610/hr-notification/internal/app"
)

func main() {
	fx.New(
		app.CreateApp(),
		fx.Invoke(run),
	).Run()
}

func run(
	lc fx.Lifecycle,
	cfg *config.Config,
	db *gorm.DB,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info().
				Str("service", cfg.Service.Name).
				Str("port", cfg.Service.Port).
				Msg("Starting notification server")

			logger.Info().Msg("Database connected successfully")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Shutting down notification server...")

			sqlDB, _ := db.DB()
			if sqlDB != nil {
				sqlDB.Close()
			}

			logger.Info().Msg("Notification server stopped")
			return nil
		},
	})
}
