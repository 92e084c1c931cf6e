package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Lakshan2000610/hr-notification/internal/domain"
)

// deviceRepository implements domain.DeviceRepository
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(db *gorm.DB) domain.DeviceRepository {
	return &deviceRepository{
		db: db,
	}
}

// GetStatus retrieves the heartbeat record for an employee
func (r *deviceRepository) GetStatus(ctx context.Context, employeeID string) (*domain.DeviceStatus, error) {
	var status domain.DeviceStatus
	result := r.db.WithContext(ctx).First(&status, "employee_id = ?", employeeID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, domain.ErrDatabaseOperation
	}
	return &status, nil
}

// UpsertStatus inserts or updates the heartbeat record
func (r *deviceRepository) UpsertStatus(ctx context.Context, status *domain.DeviceStatus) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		UpdateAll: true,
	}).Create(status)

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}
	return nil
}

// UpsertUpdateStatus inserts or updates the row for (employee, device)
func (r *deviceRepository) UpsertUpdateStatus(ctx context.Context, status *domain.DeviceUpdateStatus) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"version",
			"status",
			"error_message",
			"last_attempted_at",
		}),
	}).Create(status)

	if result.Error != nil {
		return domain.ErrDatabaseOperation
	}
	return nil
}
