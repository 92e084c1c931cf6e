package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Lakshan2000610/hr-notification/internal/domain"
)

// viewRepository implements domain.ViewRepository
type viewRepository struct {
	db *gorm.DB
}

// NewViewRepository creates a new view repository
func NewViewRepository(db *gorm.DB) domain.ViewRepository {
	return &viewRepository{
		db: db,
	}
}

// Get retrieves the view for (content, employee)
func (r *viewRepository) Get(ctx context.Context, contentID, employeeID string) (*domain.View, error) {
	var view domain.View
	result := r.db.WithContext(ctx).
		Where("content_id = ? AND employee_id = ?", contentID, employeeID).
		First(&view)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrViewNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}

	return &view, nil
}

// Upsert inserts or updates the view for (content, employee). The conflict
// assignment takes GREATEST of the stored and incoming duration, so a
// duplicate or late delivery from the agent queue can never regress the
// stored value even when writers race.
func (r *viewRepository) Upsert(ctx context.Context, view *domain.View) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "content_id"}, {Name: "employee_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"viewed_duration": gorm.Expr("GREATEST(views.viewed_duration, excluded.viewed_duration)"),
			"timestamp":       gorm.Expr("excluded.timestamp"),
		}),
	}).Create(view)

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}
	return nil
}

// ListByEmployee retrieves all views recorded for an employee
func (r *viewRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.View, error) {
	var views []domain.View
	result := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Find(&views)

	if result.Error != nil {
		return nil, domain.ErrDatabaseOperation
	}

	return views, nil
}

// ListByContent retrieves all views recorded for a content item
func (r *viewRepository) ListByContent(ctx context.Context, contentID string) ([]domain.View, error) {
	var views []domain.View
	result := r.db.WithContext(ctx).
		Where("content_id = ?", contentID).
		Find(&views)

	if result.Error != nil {
		return nil, domain.ErrDatabaseOperation
	}

	return views, nil
}
