package domain

import (
	"context"
	"time"
)

// ContentRepository defines the interface for content data access
type ContentRepository interface {
	// Create persists a new content item
	Create(ctx context.Context, content *Content) error

	// GetByID retrieves content by ID
	GetByID(ctx context.Context, id string) (*Content, error)

	// ListVisible retrieves content whose scheduled time has passed
	ListVisible(ctx context.Context, now time.Time) ([]Content, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create persists a new notification record
	Create(ctx context.Context, notification *Notification) error

	// ListSince retrieves notifications created at or after the given instant
	ListSince(ctx context.Context, since time.Time) ([]Notification, error)
}

// PreferenceRepository defines the interface for message preference access
type PreferenceRepository interface {
	// Upsert inserts or replaces the preference for (employee, content)
	Upsert(ctx context.Context, pref *MessagePreference) error

	// Get retrieves the preference for (employee, content)
	Get(ctx context.Context, employeeID, contentID string) (*MessagePreference, error)
}

// ViewRepository defines the interface for view data access
type ViewRepository interface {
	// Get retrieves the view for (content, employee)
	Get(ctx context.Context, contentID, employeeID string) (*View, error)

	// Upsert inserts or updates the view; the stored duration never
	// decreases even under concurrent writers
	Upsert(ctx context.Context, view *View) error

	// ListByEmployee retrieves all views recorded for an employee
	ListByEmployee(ctx context.Context, employeeID string) ([]View, error)

	// ListByContent retrieves all views recorded for a content item
	ListByContent(ctx context.Context, contentID string) ([]View, error)
}

// ReactionRepository defines the interface for reaction data access
type ReactionRepository interface {
	// Get retrieves the reaction for (content, employee)
	Get(ctx context.Context, contentID, employeeID string) (*Reaction, error)

	// Create inserts a new reaction; returns ErrReactionExists when a row
	// for the key already exists
	Create(ctx context.Context, reaction *Reaction) error

	// Update replaces the reaction value and timestamp for (content, employee)
	Update(ctx context.Context, reaction *Reaction) error
}

// FeedbackRepository defines the interface for feedback data access
type FeedbackRepository interface {
	// Create appends a feedback row
	Create(ctx context.Context, feedback *Feedback) error
}

// DeviceRepository defines the interface for device heartbeat and
// update-status data access
type DeviceRepository interface {
	// GetStatus retrieves the heartbeat record for an employee
	GetStatus(ctx context.Context, employeeID string) (*DeviceStatus, error)

	// UpsertStatus inserts or updates the heartbeat record
	UpsertStatus(ctx context.Context, status *DeviceStatus) error

	// UpsertUpdateStatus inserts or updates the row for (employee, device)
	UpsertUpdateStatus(ctx context.Context, status *DeviceUpdateStatus) error
}

// CancelFunc cancels an armed timer; it reports whether the timer was still
// pending
type CancelFunc func() bool

// TimerScheduler arms one-shot timers; fires happen on the scheduler's own
// goroutine and must not block request handling
type TimerScheduler interface {
	// Schedule arms fn to run at the given instant
	Schedule(at time.Time, fn func()) CancelFunc
}

// BroadcastUseCase defines the business logic for scheduling and delivering
// content
type BroadcastUseCase interface {
	// Schedule validates and persists a broadcast, then arms or triggers
	// its notification dispatch
	Schedule(ctx context.Context, req *ScheduleRequest) (string, error)

	// FeedForEmployee returns visible content and recent notifications for
	// one recipient
	FeedForEmployee(ctx context.Context, employeeID string) (*Feed, error)
}

// DelayUseCase defines the business logic for delay preference resolution
type DelayUseCase interface {
	// SetMessageDelay resolves the display time for a delay choice and
	// upserts the preference
	SetMessageDelay(ctx context.Context, employeeID, contentID string, choice DelayChoice) (*MessagePreference, error)

	// GetPreference retrieves the stored preference, if any
	GetPreference(ctx context.Context, employeeID, contentID string) (*MessagePreference, error)
}

// EngagementUseCase defines the business logic for engagement recording
type EngagementUseCase interface {
	// RecordView max-merges a view duration for (content, employee)
	RecordView(ctx context.Context, contentID, employeeID string, duration float64) error

	// RecordReaction stores the latest reaction for (content, employee)
	RecordReaction(ctx context.Context, contentID, employeeID string, reaction ReactionType) error

	// RecordFeedback appends feedback text
	RecordFeedback(ctx context.Context, contentID, employeeID, text string) error

	// ReportStatus stores a heartbeat and reconciles app-update status
	ReportStatus(ctx context.Context, report *StatusReport) error

	// ViewsForEmployee lists all views for an employee
	ViewsForEmployee(ctx context.Context, employeeID string) ([]View, error)

	// ViewsForContent lists all views for a content item
	ViewsForContent(ctx context.Context, contentID string) ([]View, error)
}
