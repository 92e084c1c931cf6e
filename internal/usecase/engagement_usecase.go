package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Lakshan2000610/hr-notification/config"
	"github.com/Lakshan2000610/hr-notification/internal/domain"
	"github.com/Lakshan2000610/hr-notification/internal/infrastructure/metrics"
	pkgerrors "github.com/Lakshan2000610/hr-notification/pkg/errors"
)

// engagementUseCase implements domain.EngagementUseCase
type engagementUseCase struct {
	viewRepo     domain.ViewRepository
	reactionRepo domain.ReactionRepository
	feedbackRepo domain.FeedbackRepository
	deviceRepo   domain.DeviceRepository
	updates      *config.UpdatesConfig
	metrics      *metrics.Metrics
	logger       zerolog.Logger
}

// NewEngagementUseCase creates a new engagement use case
func NewEngagementUseCase(
	viewRepo domain.ViewRepository,
	reactionRepo domain.ReactionRepository,
	feedbackRepo domain.FeedbackRepository,
	deviceRepo domain.DeviceRepository,
	updates *config.UpdatesConfig,
	logger zerolog.Logger,
) domain.EngagementUseCase {
	return &engagementUseCase{
		viewRepo:     viewRepo,
		reactionRepo: reactionRepo,
		feedbackRepo: feedbackRepo,
		deviceRepo:   deviceRepo,
		updates:      updates,
		metrics:      metrics.GetDefaultMetrics(),
		logger:       logger.With().Str("component", "engagement").Logger(),
	}
}

// RecordView max-merges a view duration for (content, employee). The stored
// duration is the maximum ever observed for the key, so duplicate sends from
// the agent's at-least-once queue are idempotent no-ops.
func (u *engagementUseCase) RecordView(ctx context.Context, contentID, employeeID string, duration float64) error {
	if contentID == "" || employeeID == "" {
		return pkgerrors.NewValidationError("content_id and employee_id are required")
	}
	if duration < 0 {
		return pkgerrors.NewValidationError("viewed_duration cannot be negative")
	}

	merged := duration
	existing, err := u.viewRepo.Get(ctx, contentID, employeeID)
	if err != nil && !errors.Is(err, domain.ErrViewNotFound) {
		return pkgerrors.NewDatabaseError("failed to fetch view")
	}
	if existing != nil && existing.ViewedDuration > merged {
		merged = existing.ViewedDuration
	}

	view := &domain.View{
		ContentID:      contentID,
		EmployeeID:     employeeID,
		ViewedDuration: merged,
		Timestamp:      time.Now().UTC(),
	}

	if err := u.viewRepo.Upsert(ctx, view); err != nil {
		u.logger.Error().Err(err).
			Str("content_id", contentID).
			Str("employee_id", employeeID).
			Msg("Failed to upsert view")
		return pkgerrors.NewDatabaseError("failed to record view")
	}

	u.metrics.ViewsRecorded.Inc()
	u.logger.Info().
		Str("content_id", contentID).
		Str("employee_id", employeeID).
		Float64("viewed_duration", merged).
		Msg("View recorded")

	return nil
}

// RecordReaction stores the latest reaction for (content, employee). An
// existing row is updated in place; a concurrent insert losing the
// uniqueness race retries as an update instead of erroring.
func (u *engagementUseCase) RecordReaction(ctx context.Context, contentID, employeeID string, reaction domain.ReactionType) error {
	if contentID == "" || employeeID == "" {
		return pkgerrors.NewValidationError("content_id and employee_id are required")
	}
	if !domain.ValidReaction(reaction) {
		return pkgerrors.NewValidationError("invalid reaction type")
	}

	row := &domain.Reaction{
		ContentID:  contentID,
		EmployeeID: employeeID,
		Reaction:   reaction,
		Timestamp:  time.Now().UTC(),
	}

	_, err := u.reactionRepo.Get(ctx, contentID, employeeID)
	switch {
	case err == nil:
		err = u.reactionRepo.Update(ctx, row)
		if errors.Is(err, domain.ErrReactionNotFound) {
			// Row deleted between lookup and update, insert fresh
			err = u.reactionRepo.Create(ctx, row)
		}
	case errors.Is(err, domain.ErrReactionNotFound):
		err = u.reactionRepo.Create(ctx, row)
		if errors.Is(err, domain.ErrReactionExists) {
			u.metrics.ReactionConflicts.Inc()
			err = u.reactionRepo.Update(ctx, row)
		}
	default:
		return pkgerrors.NewDatabaseError("failed to fetch reaction")
	}

	if err != nil {
		u.logger.Error().Err(err).
			Str("content_id", contentID).
			Str("employee_id", employeeID).
			Msg("Failed to record reaction")
		return pkgerrors.NewDatabaseError("failed to record reaction")
	}

	u.metrics.ReactionsRecorded.WithLabelValues(string(reaction)).Inc()
	u.logger.Info().
		Str("content_id", contentID).
		Str("employee_id", employeeID).
		Str("reaction", string(reaction)).
		Msg("Reaction recorded")

	return nil
}

// RecordFeedback appends feedback text; repeat submissions are all retained
func (u *engagementUseCase) RecordFeedback(ctx context.Context, contentID, employeeID, text string) error {
	if contentID == "" || employeeID == "" {
		return pkgerrors.NewValidationError("content_id and employee_id are required")
	}
	if text == "" {
		return pkgerrors.NewValidationError("feedback text is required")
	}

	feedback := &domain.Feedback{
		ID:         uuid.NewString(),
		ContentID:  contentID,
		EmployeeID: employeeID,
		Text:       text,
		Timestamp:  time.Now().UTC(),
	}

	if err := u.feedbackRepo.Create(ctx, feedback); err != nil {
		u.logger.Error().Err(err).
			Str("content_id", contentID).
			Str("employee_id", employeeID).
			Msg("Failed to record feedback")
		return pkgerrors.NewDatabaseError("failed to record feedback")
	}

	u.metrics.FeedbackRecorded.Inc()
	return nil
}

// ReportStatus stores a heartbeat and reconciles app-update status. Fields
// missing from the report keep their previously stored values, matching the
// agent's sparse heartbeat payloads.
func (u *engagementUseCase) ReportStatus(ctx context.Context, report *domain.StatusReport) error {
	if report == nil || report.EmployeeID == "" {
		return pkgerrors.NewValidationError("employee_id is required")
	}

	status := &domain.DeviceStatus{
		EmployeeID: report.EmployeeID,
		Status:     "online",
		Hostname:   "unknown-host",
	}

	existing, err := u.deviceRepo.GetStatus(ctx, report.EmployeeID)
	if err != nil && !errors.Is(err, domain.ErrDeviceNotFound) {
		return pkgerrors.NewDatabaseError("failed to fetch device status")
	}
	if existing != nil {
		*status = *existing
	}

	if report.Status != "" {
		status.Status = report.Status
	}
	if report.ActiveStatus != "" {
		status.ActiveStatus = report.ActiveStatus
	}
	if report.Hostname != "" {
		status.Hostname = report.Hostname
	}
	if report.Email != "" {
		status.Email = report.Email
	}
	if report.IP != "" {
		status.IP = report.IP
	}
	if report.DeviceType != "" {
		status.DeviceType = report.DeviceType
	}
	status.AppRunning = report.AppRunning
	status.LastSeen = time.Now().UTC()

	if err := u.deviceRepo.UpsertStatus(ctx, status); err != nil {
		u.logger.Error().Err(err).
			Str("employee_id", report.EmployeeID).
			Msg("Failed to upsert device status")
		return pkgerrors.NewDatabaseError("failed to store device status")
	}

	u.metrics.HeartbeatsTotal.Inc()

	if report.DeviceID == "" {
		return nil
	}

	state := report.UpdateStatus
	if state == "" {
		state = domain.UpdatePending
	}
	if !domain.ValidUpdateState(state) {
		return pkgerrors.NewValidationError("invalid update_status: " + string(state))
	}

	// A device already on the authoritative version is reconciled to
	// success regardless of what it reported
	if report.CurrentVersion == u.updates.CurrentVersion {
		state = domain.UpdateSuccess
	}

	errorMessage := ""
	if state == domain.UpdateFailed {
		errorMessage = report.ErrorMessage
	}

	updateStatus := &domain.DeviceUpdateStatus{
		EmployeeID:      report.EmployeeID,
		DeviceID:        report.DeviceID,
		Version:         report.CurrentVersion,
		Status:          state,
		ErrorMessage:    errorMessage,
		LastAttemptedAt: time.Now().UTC(),
	}

	if err := u.deviceRepo.UpsertUpdateStatus(ctx, updateStatus); err != nil {
		u.logger.Error().Err(err).
			Str("employee_id", report.EmployeeID).
			Str("device_id", report.DeviceID).
			Msg("Failed to upsert device update status")
		return pkgerrors.NewDatabaseError("failed to store update status")
	}

	return nil
}

// ViewsForEmployee lists all views for an employee
func (u *engagementUseCase) ViewsForEmployee(ctx context.Context, employeeID string) ([]domain.View, error) {
	if employeeID == "" {
		return nil, pkgerrors.NewValidationError("employee_id is required")
	}

	views, err := u.viewRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to fetch views")
	}
	return views, nil
}

// ViewsForContent lists all views for a content item
func (u *engagementUseCase) ViewsForContent(ctx context.Context, contentID string) ([]domain.View, error) {
	if contentID == "" {
		return nil, pkgerrors.NewValidationError("content_id is required")
	}

	views, err := u.viewRepo.ListByContent(ctx, contentID)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("failed to fetch views")
	}
	return views, nil
}
