package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Lakshan2000610/hr-notification/internal/domain"
)

// notificationRepository implements domain.NotificationRepository
type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) domain.NotificationRepository {
	return &notificationRepository{
		db: db,
	}
}

// Create persists a new notification record
func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	result := r.db.WithContext(ctx).Create(notification)
	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}
	return nil
}

// ListSince retrieves notifications created at or after the given instant
func (r *notificationRepository) ListSince(ctx context.Context, since time.Time) ([]domain.Notification, error) {
	var notifications []domain.Notification
	result := r.db.WithContext(ctx).
		Where("time >= ?", since).
		Order("time DESC").
		Find(&notifications)

	if result.Error != nil {
		return nil, domain.ErrDatabaseOperation
	}

	return notifications, nil
}
