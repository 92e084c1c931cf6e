package poller

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lakshan2000610/hr-notification/config"
	"github.com/Lakshan2000610/hr-notification/internal/agent/client"
	"github.com/Lakshan2000610/hr-notification/internal/agent/state"
	"github.com/Lakshan2000610/hr-notification/internal/domain"
	pkgerrors "github.com/Lakshan2000610/hr-notification/pkg/errors"
)

// Event is a typed poll outcome consumed by the display runner
type Event interface{ isEvent() }

// NewContent signals content the agent has never handled
type NewContent struct {
	Content domain.Content
}

// DisplayDue signals content whose resolved display time has arrived
type DisplayDue struct {
	Content domain.Content
}

func (NewContent) isEvent() {}
func (DisplayDue) isEvent() {}

// Poller drives the agent's poll cycle: fetch the feed, reconcile views,
// emit events for content that needs handling, then heartbeat
type Poller struct {
	api    *client.Client
	state  *state.AgentState
	cfg    *config.AgentConfig
	events chan<- Event
	logger zerolog.Logger
}

// New creates a new poller emitting into events
func New(
	api *client.Client,
	st *state.AgentState,
	cfg *config.AgentConfig,
	events chan Event,
	logger zerolog.Logger,
) *Poller {
	return &Poller{
		api:    api,
		state:  st,
		cfg:    cfg,
		events: events,
		logger: logger.With().Str("component", "poller").Logger(),
	}
}

// Run polls until the context is canceled. The first cycle runs immediately.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info().
		Dur("interval", p.cfg.PollInterval).
		Str("employee_id", p.cfg.EmployeeID).
		Msg("Poller started")

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()

	p.cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("Poller stopped")
			return
		case <-ticker.C:
			p.cycle(ctx)
		}
	}
}

// cycle performs one poll. A failed cycle mutates nothing and waits for the
// next tick.
func (p *Poller) cycle(ctx context.Context) {
	feed, err := p.api.Feed(ctx, p.cfg.EmployeeID)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Poll cycle failed, will retry on next tick")
		return
	}

	p.reconcile(ctx)

	now := time.Now().UTC()
	for _, content := range feed.Content {
		p.handleContent(ctx, content, now)
	}

	p.heartbeat(ctx)
}

// handleContent routes one feed item to the right event, if any
func (p *Poller) handleContent(ctx context.Context, content domain.Content, now time.Time) {
	if p.state.IsProcessed(content.ID) {
		return
	}

	if at, ok := p.state.PendingDisplay(content.ID); ok {
		if !at.After(now) {
			p.emit(ctx, DisplayDue{Content: content})
		}
		return
	}

	// No local pending record. The server may still hold a preference from
	// a previous install, so ask before treating the content as new.
	pref, err := p.api.Preference(ctx, p.cfg.EmployeeID, content.ID)
	if err != nil {
		if !pkgerrors.IsNotFoundError(err) {
			p.logger.Warn().Err(err).
				Str("content_id", content.ID).
				Msg("Preference lookup failed, deferring content")
			return
		}

		p.emit(ctx, NewContent{Content: content})
		return
	}

	if err := p.state.SetPendingDisplay(content.ID, pref.DisplayTime); err != nil {
		p.logger.Error().Err(err).
			Str("content_id", content.ID).
			Msg("Failed to persist recovered display time")
		return
	}
	if !pref.DisplayTime.After(now) {
		p.emit(ctx, DisplayDue{Content: content})
	}
}

// reconcile merges server-side views so content already viewed elsewhere is
// never redisplayed
func (p *Poller) reconcile(ctx context.Context) {
	views, err := p.api.Views(ctx, p.cfg.EmployeeID)
	if err != nil {
		p.logger.Warn().Err(err).Msg("View reconciliation failed")
		return
	}

	if err := p.state.ReconcileViews(views); err != nil {
		p.logger.Error().Err(err).Msg("Failed to persist reconciled views")
	}
}

// heartbeat reports liveness and the running app version
func (p *Poller) heartbeat(ctx context.Context) {
	hostname, _ := os.Hostname()

	report := &domain.StatusReport{
		EmployeeID:     p.cfg.EmployeeID,
		DeviceID:       p.cfg.DeviceID,
		Status:         "online",
		AppRunning:     true,
		Hostname:       hostname,
		CurrentVersion: p.cfg.Version,
	}

	if err := p.api.ReportStatus(ctx, report); err != nil {
		p.logger.Warn().Err(err).Msg("Heartbeat failed")
	}
}

func (p *Poller) emit(ctx context.Context, ev Event) {
	select {
	case p.events <- ev:
	case <-ctx.Done():
	}
}
