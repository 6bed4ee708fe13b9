package attendance

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
