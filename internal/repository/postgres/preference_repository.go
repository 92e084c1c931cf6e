package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Lakshan2000610/hr-notification/internal/domain"
)

// preferenceRepository implements domain.PreferenceRepository
type preferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new message preference repository
func NewPreferenceRepository(db *gorm.DB) domain.PreferenceRepository {
	return &preferenceRepository{
		db: db,
	}
}

// Upsert inserts or replaces the preference for (employee, content). A second
// write for the same key replaces the row instead of duplicating it.
func (r *preferenceRepository) Upsert(ctx context.Context, pref *domain.MessagePreference) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "content_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"delay_choice",
			"display_time",
		}),
	}).Create(pref)

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}
	return nil
}

// Get retrieves the preference for (employee, content)
func (r *preferenceRepository) Get(ctx context.Context, employeeID, contentID string) (*domain.MessagePreference, error) {
	var pref domain.MessagePreference
	result := r.db.WithContext(ctx).
		Where("employee_id = ? AND content_id = ?", employeeID, contentID).
		First(&pref)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPreferenceNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}

	return &pref, nil
}
