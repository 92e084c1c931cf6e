package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lakshan2000610/hr-notification/config"
	"github.com/Lakshan2000610/hr-notification/internal/domain"
	"github.com/Lakshan2000610/hr-notification/internal/infrastructure/metrics"
	pkgerrors "github.com/Lakshan2000610/hr-notification/pkg/errors"
)

// delayUseCase implements domain.DelayUseCase
type delayUseCase struct {
	prefRepo    domain.PreferenceRepository
	contentRepo domain.ContentRepository
	cfg         *config.ScheduleConfig
	metrics     *metrics.Metrics
	logger      zerolog.Logger
}

// NewDelayUseCase creates a new delay preference use case
func NewDelayUseCase(
	prefRepo domain.PreferenceRepository,
	contentRepo domain.ContentRepository,
	cfg *config.ScheduleConfig,
	logger zerolog.Logger,
) domain.DelayUseCase {
	return &delayUseCase{
		prefRepo:    prefRepo,
		contentRepo: contentRepo,
		cfg:         cfg,
		metrics:     metrics.GetDefaultMetrics(),
		logger:      logger.With().Str("component", "delay").Logger(),
	}
}

// SetMessageDelay resolves the display time for a delay choice and upserts
// the preference. Resolution policy:
//
//	Immediate      -> max(content.scheduled_time, now_utc)
//	within N       -> now_local + offset, converted to UTC
//
// where now_local uses the deployment's fixed offset. Calling this twice for
// the same (employee, content) replaces the stored row.
func (u *delayUseCase) SetMessageDelay(ctx context.Context, employeeID, contentID string, choice domain.DelayChoice) (*domain.MessagePreference, error) {
	if employeeID == "" || contentID == "" {
		return nil, pkgerrors.NewValidationError("employee_id and content_id are required")
	}
	if !domain.ValidDelayChoice(choice) {
		return nil, pkgerrors.NewValidationError("invalid delay_choice: " + string(choice))
	}

	now := time.Now().UTC()

	var displayTime time.Time
	if offset, ok := domain.DelayOffset(choice); ok {
		// Relative delays anchor to local time, then normalize to UTC
		displayTime = now.In(u.cfg.Location()).Add(offset).UTC()
	} else {
		content, err := u.contentRepo.GetByID(ctx, contentID)
		if err != nil {
			if errors.Is(err, domain.ErrContentNotFound) {
				return nil, pkgerrors.NewNotFoundError("content not found")
			}
			return nil, pkgerrors.NewDatabaseError("failed to fetch content")
		}

		// A zero scheduled_time means the stored instant could not be
		// parsed; no preference is written so the caller can fall back to
		// immediate display
		if content.ScheduledTime.IsZero() {
			return nil, pkgerrors.NewInvalidScheduleError("content has no valid scheduled_time")
		}

		displayTime = content.ScheduledTime
		if now.After(displayTime) {
			displayTime = now
		}
	}

	pref := &domain.MessagePreference{
		EmployeeID:  employeeID,
		ContentID:   contentID,
		DelayChoice: choice,
		DisplayTime: displayTime,
	}

	if err := u.prefRepo.Upsert(ctx, pref); err != nil {
		u.logger.Error().Err(err).
			Str("content_id", contentID).
			Str("employee_id", employeeID).
			Msg("Failed to upsert message preference")
		return nil, pkgerrors.NewDatabaseError("failed to store message preference")
	}

	u.metrics.PreferenceWrites.Inc()
	u.logger.Info().
		Str("content_id", contentID).
		Str("employee_id", employeeID).
		Str("delay_choice", string(choice)).
		Time("display_time", displayTime).
		Msg("Message delay set")

	return pref, nil
}

// GetPreference retrieves the stored preference, if any
func (u *delayUseCase) GetPreference(ctx context.Context, employeeID, contentID string) (*domain.MessagePreference, error) {
	if employeeID == "" || contentID == "" {
		return nil, pkgerrors.NewValidationError("employee_id and content_id are required")
	}

	pref, err := u.prefRepo.Get(ctx, employeeID, contentID)
	if err != nil {
		if errors.Is(err, domain.ErrPreferenceNotFound) {
			return nil, pkgerrors.NewNotFoundError("message preference not found")
		}
		return nil, pkgerrors.NewDatabaseError("failed to fetch message preference")
	}

	return pref, nil
}
