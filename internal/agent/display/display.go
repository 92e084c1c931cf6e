package display

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lakshan2000610/hr-notification/config"
	"github.com/Lakshan2000610/hr-notification/internal/agent/client"
	"github.com/Lakshan2000610/hr-notification/internal/agent/poller"
	"github.com/Lakshan2000610/hr-notification/internal/agent/queue"
	"github.com/Lakshan2000610/hr-notification/internal/agent/state"
	"github.com/Lakshan2000610/hr-notification/internal/domain"
)

// ChoiceProvider resolves the delay choice for newly arrived content. The
// desktop build wires a dialog here; headless builds display immediately.
type ChoiceProvider interface {
	Choose(content *domain.Content) domain.DelayChoice
}

// AutoImmediate always chooses immediate display
type AutoImmediate struct{}

func (AutoImmediate) Choose(*domain.Content) domain.DelayChoice {
	return domain.DelayImmediate
}

// Presenter shows content to the employee
type Presenter interface {
	Present(content *domain.Content)
}

// LogPresenter logs the content instead of rendering it
type LogPresenter struct {
	Logger zerolog.Logger
}

func (p LogPresenter) Present(content *domain.Content) {
	p.Logger.Info().
		Str("content_id", content.ID).
		Str("title", content.Title).
		Msg("Displaying content")
}

// Runner consumes poll events and walks each content item through
// choice, optional delay, and at-most-once display
type Runner struct {
	api     *client.Client
	state   *state.AgentState
	viewQ   *queue.Queue
	timers  domain.TimerScheduler
	chooser ChoiceProvider
	present Presenter
	cfg     *config.AgentConfig
	logger  zerolog.Logger

	mu          sync.Mutex
	delayTimers map[string]domain.CancelFunc
}

// NewRunner creates a new display runner
func NewRunner(
	api *client.Client,
	st *state.AgentState,
	viewQ *queue.Queue,
	timers domain.TimerScheduler,
	chooser ChoiceProvider,
	present Presenter,
	cfg *config.AgentConfig,
	logger zerolog.Logger,
) *Runner {
	return &Runner{
		api:         api,
		state:       st,
		viewQ:       viewQ,
		timers:      timers,
		chooser:     chooser,
		present:     present,
		cfg:         cfg,
		logger:      logger.With().Str("component", "display").Logger(),
		delayTimers: make(map[string]domain.CancelFunc),
	}
}

// Run consumes events until the context is canceled
func (r *Runner) Run(ctx context.Context, events <-chan poller.Event) {
	r.logger.Info().Msg("Display runner started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("Display runner stopped")
			return
		case ev := <-events:
			switch e := ev.(type) {
			case poller.NewContent:
				r.handleNew(ctx, e.Content)
			case poller.DisplayDue:
				r.display(ctx, e.Content)
			}
		}
	}
}

// handleNew resolves the delay choice for content seen for the first time.
// Content already holding a resolved display time never re-enters the choice:
// a stale event just makes sure the local timer is armed.
func (r *Runner) handleNew(ctx context.Context, content domain.Content) {
	if r.state.IsProcessed(content.ID) {
		return
	}

	if at, ok := r.state.PendingDisplay(content.ID); ok {
		if !at.After(time.Now()) {
			r.display(ctx, content)
			return
		}
		r.armTimer(ctx, content, at)
		return
	}

	choice := r.chooser.Choose(&content)
	if choice == domain.DelayImmediate {
		r.display(ctx, content)
		return
	}

	displayTime, err := r.api.SetMessageDelay(ctx, r.cfg.EmployeeID, content.ID, choice)
	if err != nil {
		r.logger.Warn().Err(err).
			Str("content_id", content.ID).
			Msg("Failed to record delay choice, content stays unhandled")
		return
	}

	if err := r.state.SetPendingDisplay(content.ID, displayTime); err != nil {
		r.logger.Error().Err(err).
			Str("content_id", content.ID).
			Msg("Failed to persist display time")
		return
	}

	r.armTimer(ctx, content, displayTime)

	r.logger.Info().
		Str("content_id", content.ID).
		Str("delay_choice", string(choice)).
		Time("display_time", displayTime).
		Msg("Content display delayed")
}

// armTimer schedules a local display at the resolved time. The poller's due
// check covers the case where the process restarts before the timer fires.
func (r *Runner) armTimer(ctx context.Context, content domain.Content, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cancel, ok := r.delayTimers[content.ID]; ok {
		cancel()
	}

	r.delayTimers[content.ID] = r.timers.Schedule(at, func() {
		r.display(ctx, content)
	})
}

// display shows the content exactly once, durably marks it processed, and
// arms the view-duration measurement
func (r *Runner) display(ctx context.Context, content domain.Content) {
	if r.state.IsProcessed(content.ID) {
		r.cancelTimer(content.ID)
		return
	}

	// The durable mark precedes presentation: a crash after this point
	// drops a display rather than repeating one.
	if err := r.state.MarkProcessed(content.ID); err != nil {
		r.logger.Error().Err(err).
			Str("content_id", content.ID).
			Msg("Failed to mark content processed, skipping display")
		return
	}

	r.cancelTimer(content.ID)
	r.present.Present(&content)

	// Record the view once the employee has had the content up for the
	// configured mark.
	viewed := r.cfg.ViewMark
	r.timers.Schedule(time.Now().Add(viewed), func() {
		r.recordView(content.ID, viewed.Seconds())
	})
}

func (r *Runner) recordView(contentID string, seconds float64) {
	changed, err := r.state.MergeDuration(contentID, seconds)
	if err != nil {
		r.logger.Error().Err(err).
			Str("content_id", contentID).
			Msg("Failed to persist viewed duration")
	}
	if !changed {
		return
	}

	rec := queue.ViewRecord{
		ContentID:      contentID,
		EmployeeID:     r.cfg.EmployeeID,
		ViewedDuration: seconds,
		Timestamp:      time.Now().UTC(),
	}

	if err := r.viewQ.Enqueue(rec); err != nil {
		r.logger.Error().Err(err).
			Str("content_id", contentID).
			Msg("Failed to enqueue view record")
	}
}

func (r *Runner) cancelTimer(contentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cancel, ok := r.delayTimers[contentID]; ok {
		cancel()
		delete(r.delayTimers, contentID)
	}
}

// React sends a reaction for displayed content
func (r *Runner) React(ctx context.Context, contentID string, reaction domain.ReactionType) error {
	return r.api.RecordReaction(ctx, contentID, r.cfg.EmployeeID, reaction)
}

// SubmitFeedback sends free-form feedback for displayed content
func (r *Runner) SubmitFeedback(ctx context.Context, contentID, text string) error {
	return r.api.RecordFeedback(ctx, contentID, r.cfg.EmployeeID, text)
}
