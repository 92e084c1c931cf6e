package app

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/elixxir/ekv"
	"go.uber.org/fx"

	"github.com/Lakshan2000610/hr-notification/config"
	"github.com/Lakshan2000610/hr-notification/internal/agent/client"
	"github.com/Lakshan2000610/hr-notification/internal/agent/display"
	"github.com/Lakshan2000610/hr-notification/internal/agent/poller"
	"github.com/Lakshan2000610/hr-notification/internal/agent/queue"
	"github.com/Lakshan2000610/hr-notification/internal/agent/state"
	"github.com/Lakshan2000610/hr-notification/internal/domain"
	"github.com/Lakshan2000610/hr-notification/internal/infrastructure/logger"
	"github.com/Lakshan2000610/hr-notification/internal/scheduler"
)

// CreateApp creates the fx application with all agent dependencies
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(
			config.Out,
			logger.NewLogger,
			NewKeyValue,
			NewTimerScheduler,
			client.NewClient,
			state.Load,
			NewViewQueue,
			NewChoiceProvider,
			NewPresenter,
			NewEvents,
			display.NewRunner,
			poller.New,
		),
		fx.Invoke(registerWorkers),
	)
}

// NewKeyValue opens the agent's encrypted on-disk store
func NewKeyValue(cfg *config.AgentConfig) (ekv.KeyValue, error) {
	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		return nil, err
	}

	return ekv.NewFilestore(cfg.StateDir, cfg.StatePassword)
}

// NewTimerScheduler provides the agent's timer wheel with its lifecycle
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

// NewViewQueue builds the durable view queue with the API client as sender
func NewViewQueue(kv ekv.KeyValue, api *client.Client, cfg *config.AgentConfig, logger zerolog.Logger) (*queue.Queue, error) {
	return queue.New(kv, api, cfg, logger)
}

// NewChoiceProvider supplies the headless default; the desktop build
// replaces it with the dialog implementation
func NewChoiceProvider() display.ChoiceProvider {
	return display.AutoImmediate{}
}

// NewPresenter supplies the headless default presenter
func NewPresenter(logger zerolog.Logger) display.Presenter {
	return display.LogPresenter{Logger: logger}
}

// NewEvents provides the poll event channel
func NewEvents() chan poller.Event {
	return make(chan poller.Event, 16)
}

func registerWorkers(
	lc fx.Lifecycle,
	p *poller.Poller,
	r *display.Runner,
	q *queue.Queue,
	events chan poller.Event,
	logger zerolog.Logger,
) {
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go r.Run(runCtx, events)
			go p.Run(runCtx)
			go q.Run(runCtx)
			logger.Info().Msg("Agent workers started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			logger.Info().Msg("Stopping agent workers...")
			cancel()
			return nil
		},
	})
}
