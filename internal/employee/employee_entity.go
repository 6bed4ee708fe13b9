package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName     string    `gorm:"column:full_name;not null"`
	Email        string    `gorm:"uniqueIndex:uq_employee_email"`
	EmployeeType string    `gorm:"column:employee_type;type:varchar(20);not null;default:'PERMANENT'"`
	Active       bool      `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
