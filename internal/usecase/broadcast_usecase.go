package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Lakshan2000610/hr-notification/config"
	"github.com/Lakshan2000610/hr-notification/internal/domain"
	"github.com/Lakshan2000610/hr-notification/internal/infrastructure/metrics"
	pkgerrors "github.com/Lakshan2000610/hr-notification/pkg/errors"
)

const (
	maxTitleLen = 100

	// scheduleLayout is the local wall-clock format accepted from the admin
	scheduleLayout = "2006-01-02T15:04"

	// notificationWindow is how far back the feed includes notifications
	notificationWindow = 7 * 24 * time.Hour
)

// broadcastUseCase implements domain.BroadcastUseCase
type broadcastUseCase struct {
	contentRepo      domain.ContentRepository
	notificationRepo domain.NotificationRepository
	timers           domain.TimerScheduler
	cfg              *config.ScheduleConfig
	metrics          *metrics.Metrics
	logger           zerolog.Logger
}

// NewBroadcastUseCase creates a new broadcast use case
func NewBroadcastUseCase(
	contentRepo domain.ContentRepository,
	notificationRepo domain.NotificationRepository,
	timers domain.TimerScheduler,
	cfg *config.ScheduleConfig,
	logger zerolog.Logger,
) domain.BroadcastUseCase {
	return &broadcastUseCase{
		contentRepo:      contentRepo,
		notificationRepo: notificationRepo,
		timers:           timers,
		cfg:              cfg,
		metrics:          metrics.GetDefaultMetrics(),
		logger:           logger.With().Str("component", "broadcast").Logger(),
	}
}

// Schedule validates and persists a broadcast, then arms or triggers its
// notification dispatch. All validation happens before the insert so a
// rejected request leaves no partial row.
func (u *broadcastUseCase) Schedule(ctx context.Context, req *domain.ScheduleRequest) (string, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return "", pkgerrors.NewValidationError("title is required")
	}
	if len(title) > maxTitleLen {
		return "", pkgerrors.NewValidationError("title cannot exceed 100 characters")
	}
	if req.Text == "" {
		return "", pkgerrors.NewValidationError("text is required")
	}

	recipients := filterBlank(req.Recipients)
	if len(recipients) == 0 {
		return "", pkgerrors.NewValidationError("no valid recipients selected")
	}

	now := time.Now().UTC()
	scheduledTime := now
	if !req.SendNow {
		if req.ScheduledTime == "" {
			return "", pkgerrors.NewValidationError("scheduled_time is required when send_now is not set")
		}
		parsed, err := time.ParseInLocation(scheduleLayout, req.ScheduledTime, u.cfg.Location())
		if err != nil {
			return "", pkgerrors.NewValidationError("invalid scheduled_time format: " + err.Error())
		}
		scheduledTime = parsed.UTC()
	}

	content := &domain.Content{
		ID:            uuid.NewString(),
		Type:          contentTypeFor(req.ImageURL, req.VideoURL),
		Title:         title,
		Text:          req.Text,
		ImageURL:      req.ImageURL,
		VideoURL:      req.VideoURL,
		ScheduledTime: scheduledTime,
		Recipients:    recipients,
	}

	if err := u.contentRepo.Create(ctx, content); err != nil {
		u.logger.Error().Err(err).
			Str("content_id", content.ID).
			Msg("Failed to create content")
		return "", pkgerrors.NewDatabaseError("failed to create content")
	}

	u.metrics.ContentScheduled.Inc()
	u.logger.Info().
		Str("content_id", content.ID).
		Time("scheduled_time", scheduledTime).
		Int("recipients", len(recipients)).
		Msg("Content scheduled")

	notifyAt := scheduledTime.Add(-u.cfg.NotificationLead)
	if notifyAt.After(now) {
		u.arm(content.ID, notifyAt, recipients)
	} else {
		u.dispatch(content.ID, recipients)
	}

	return content.ID, nil
}

// arm schedules a one-shot notification timer. Timer state is not persisted:
// a timer lost to a restart degrades to no advance notice, never to lost
// content, because visibility is governed by scheduled_time alone.
func (u *broadcastUseCase) arm(contentID string, notifyAt time.Time, recipients []string) {
	u.metrics.DispatcherTimersArmed.Inc()
	u.timers.Schedule(notifyAt, func() {
		u.metrics.DispatcherTimersArmed.Dec()
		u.dispatch(contentID, recipients)
	})

	u.logger.Debug().
		Str("content_id", contentID).
		Time("notify_at", notifyAt).
		Msg("Notification timer armed")
}

// dispatch writes the advance-notice record; failures are logged and dropped
func (u *broadcastUseCase) dispatch(contentID string, recipients []string) {
	notification := &domain.Notification{
		ContentID:  contentID,
		Recipients: recipients,
		Time:       time.Now().UTC(),
	}

	if err := u.notificationRepo.Create(context.Background(), notification); err != nil {
		u.metrics.NotificationErrors.Inc()
		u.logger.Error().Err(err).
			Str("content_id", contentID).
			Msg("Failed to send notification")
		return
	}

	u.metrics.NotificationsSent.Inc()
	u.logger.Info().
		Str("content_id", contentID).
		Int("recipients", len(recipients)).
		Msg("Notification sent")
}

// FeedForEmployee returns visible content and recent notifications for one
// recipient. Visibility depends only on scheduled_time, never on whether a
// notification row exists.
func (u *broadcastUseCase) FeedForEmployee(ctx context.Context, employeeID string) (*domain.Feed, error) {
	if employeeID == "" {
		return nil, pkgerrors.NewValidationError("employee_id is required")
	}

	now := time.Now().UTC()

	visible, err := u.contentRepo.ListVisible(ctx, now)
	if err != nil {
		u.logger.Error().Err(err).
			Str("employee_id", employeeID).
			Msg("Failed to list visible content")
		return nil, pkgerrors.NewDatabaseError("failed to fetch content")
	}

	content := make([]domain.Content, 0, len(visible))
	byID := make(map[string]*domain.Content, len(visible))
	for i := range visible {
		if !visible[i].Recipients.Contains(employeeID) {
			continue
		}
		content = append(content, visible[i])
		byID[visible[i].ID] = &content[len(content)-1]
	}

	recent, err := u.notificationRepo.ListSince(ctx, now.Add(-notificationWindow))
	if err != nil {
		u.logger.Error().Err(err).
			Str("employee_id", employeeID).
			Msg("Failed to list notifications")
		return nil, pkgerrors.NewDatabaseError("failed to fetch notifications")
	}

	notifications := make([]domain.Notification, 0, len(recent))
	for _, n := range recent {
		if !n.Recipients.Contains(employeeID) {
			continue
		}
		if c, ok := byID[n.ContentID]; ok {
			n.Text = "New content: " + c.Title + " - " + c.Text
		} else {
			n.Text = "Notification at " + n.Time.Format(time.RFC3339)
		}
		notifications = append(notifications, n)
	}

	u.metrics.FeedRequests.Inc()

	return &domain.Feed{
		Content:       content,
		Notifications: notifications,
	}, nil
}

// filterBlank drops empty and whitespace-only recipient ids
func filterBlank(recipients []string) []string {
	out := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if strings.TrimSpace(r) != "" {
			out = append(out, r)
		}
	}
	return out
}

// contentTypeFor derives the content type from the attached media
func contentTypeFor(imageURL, videoURL string) domain.ContentType {
	switch {
	case imageURL != "" && videoURL != "":
		return domain.ContentTypeBoth
	case videoURL != "":
		return domain.ContentTypeVideo
	case imageURL != "":
		return domain.ContentTypeImage
	}
	return domain.ContentTypeText
}
