package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Lakshan2000610/hr-notification/internal/domain"
)

// contentRepository implements domain.ContentRepository
type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *gorm.DB) domain.ContentRepository {
	return &contentRepository{
		db: db,
	}
}

// Create persists a new content item
func (r *contentRepository) Create(ctx context.Context, content *domain.Content) error {
	result := r.db.WithContext(ctx).Create(content)
	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}
	return nil
}

// GetByID retrieves content by ID
func (r *contentRepository) GetByID(ctx context.Context, id string) (*domain.Content, error) {
	var content domain.Content
	result := r.db.WithContext(ctx).First(&content, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrContentNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}
	return &content, nil
}

// ListVisible retrieves content whose scheduled time has passed
func (r *contentRepository) ListVisible(ctx context.Context, now time.Time) ([]domain.Content, error) {
	var content []domain.Content
	result := r.db.WithContext(ctx).
		Where("scheduled_time <= ?", now).
		Order("scheduled_time ASC").
		Find(&content)

	if result.Error != nil {
		return nil, domain.ErrDatabaseOperation
	}

	return content, nil
}
