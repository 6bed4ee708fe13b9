package balance

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is the per-employee-per-year ledger row. (employee_id, year)
// is the natural key; rows are created by the mutator or the bulk
// initializer and never deleted by this engine.
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_leave_balances_employee_year"`
	Year       int       `gorm:"column:year;type:int;not null;uniqueIndex:uq_leave_balances_employee_year"`

	VacationDaysTotal float64 `gorm:"column:vacation_days_total;not null;default:0"`
	VacationDaysUsed  float64 `gorm:"column:vacation_days_used;not null;default:0"`
	SickDaysUsed      float64 `gorm:"column:sick_days_used;not null;default:0"`
	SpecialLeaveUsed  float64 `gorm:"column:special_leave_used;not null;default:0"`
	CompensationHours float64 `gorm:"column:compensation_hours;not null;default:0"`
	CompensationUsed  float64 `gorm:"column:compensation_used;not null;default:0"`

	Notes         *string `gorm:"column:notes;type:text"`
	LastUpdatedBy string  `gorm:"column:last_updated_by;type:varchar(100);not null"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	Employee *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// EmployeeRef is the read-only projection of the employees table used
// when embedding employee data into balance views.
type EmployeeRef struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName     string    `gorm:"column:full_name"`
	Email        string    `gorm:"column:email"`
	EmployeeType string    `gorm:"column:employee_type"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

// VacationDaysRemaining is derived, never stored: used may exceed total
// after a manual correction, in which case remaining floors at zero while
// the raw fields keep their real values.
func (b LeaveBalance) VacationDaysRemaining() float64 {
	return math.Max(0, b.VacationDaysTotal-b.VacationDaysUsed)
}

// CompensationBalance may legitimately be negative when an employee has
// used more time-for-time than currently accrued. Renderers must show the
// sign, not clamp.
func (b LeaveBalance) CompensationBalance() float64 {
	return b.CompensationHours - b.CompensationUsed
}
