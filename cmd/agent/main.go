package main

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Lakshan2000610/hr-notification/config"
	"github.com/Lakshan2000610/hr-notification/internal/agent/app"
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
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info().
				Str("server_url", cfg.Agent.ServerURL).
				Str("employee_id", cfg.Agent.EmployeeID).
				Str("version", cfg.Agent.Version).
				Msg("Starting notification agent")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Notification agent stopped")
			return nil
		},
	})
}
