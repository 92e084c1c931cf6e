package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/Lakshan2000610/hr-notification/internal/domain"
)

// feedbackRepository implements domain.FeedbackRepository
type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *gorm.DB) domain.FeedbackRepository {
	return &feedbackRepository{
		db: db,
	}
}

// Create appends a feedback row; feedback carries no identity constraint so
// repeat submissions are all retained
func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	result := r.db.WithContext(ctx).Create(feedback)
	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}
	return nil
}
