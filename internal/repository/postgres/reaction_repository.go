package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Lakshan2000610/hr-notification/internal/domain"
)

// reactionRepository implements domain.ReactionRepository
type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) domain.ReactionRepository {
	return &reactionRepository{
		db: db,
	}
}

// Get retrieves the reaction for (content, employee)
func (r *reactionRepository) Get(ctx context.Context, contentID, employeeID string) (*domain.Reaction, error) {
	var reaction domain.Reaction
	result := r.db.WithContext(ctx).
		Where("content_id = ? AND employee_id = ?", contentID, employeeID).
		First(&reaction)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReactionNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}

	return &reaction, nil
}

// Create inserts a new reaction; a concurrent insert for the same key
// surfaces as ErrReactionExists so the caller can retry as an update
func (r *reactionRepository) Create(ctx context.Context, reaction *domain.Reaction) error {
	result := r.db.WithContext(ctx).Create(reaction)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrReactionExists
		}
		return domain.ErrDatabaseOperation
	}
	return nil
}

// Update replaces the reaction value and timestamp for (content, employee)
func (r *reactionRepository) Update(ctx context.Context, reaction *domain.Reaction) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Reaction{}).
		Where("content_id = ? AND employee_id = ?", reaction.ContentID, reaction.EmployeeID).
		Updates(map[string]interface{}{
			"reaction":  reaction.Reaction,
			"timestamp": reaction.Timestamp,
		})

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}
	if result.RowsAffected == 0 {
		return domain.ErrReactionNotFound
	}
	return nil
}
