package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Lakshan2000610/hr-notification/config"
	delivery "github.com/Lakshan2000610/hr-notification/internal/delivery/http"
	"github.com/Lakshan2000610/hr-notification/internal/domain"
	"github.com/Lakshan2000610/hr-notification/internal/infrastructure/database"
	"github.com/Lakshan2000610/hr-notification/internal/infrastructure/logger"
	"github.com/Lakshan2000610/hr-notification/internal/repository/postgres"
	"github.com/Lakshan2000610/hr-notification/internal/scheduler"
	"github.com/Lakshan2000610/hr-notification/internal/usecase"
)

// CreateApp creates the fx application with all server dependencies
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(
			config.Out,
			logger.NewLogger,
			database.NewPostgresDB,
			NewTimerScheduler,
		),
		fx.Provide(
			postgres.NewContentRepository,
			postgres.NewNotificationRepository,
			postgres.NewPreferenceRepository,
			postgres.NewViewRepository,
			postgres.NewReactionRepository,
			postgres.NewFeedbackRepository,
			postgres.NewDeviceRepository,
		),
		fx.Provide(
			usecase.NewBroadcastUseCase,
			usecase.NewDelayUseCase,
			usecase.NewEngagementUseCase,
		),
		fx.Provide(
			delivery.NewHandler,
			delivery.NewRouter,
		),
		fx.Invoke(registerHTTPServer),
	)
}

// NewTimerScheduler provides the in-process timer wheel with its lifecycle
// bound to the application
func NewTimerScheduler(lc fx.Lifecycle, logger zerolog.Logger) domain.TimerScheduler {
	s := scheduler.New(logger)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})

	return s
}

func registerHTTPServer(
	lc fx.Lifecycle,
	cfg *config.ServiceConfig,
	router *gin.Engine,
	logger zerolog.Logger,
) {
	server := delivery.NewServer(cfg.Port, router, logger)

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
