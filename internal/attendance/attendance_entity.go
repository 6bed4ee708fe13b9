package attendance

import (
	"time"

	"github.com/google/uuid"
)

type Attendance struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID     uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;index"`
	AttendanceDate time.Time  `gorm:"column:attendance_date;type:date;not null;index"`
	ClockIn        time.Time  `gorm:"column:clock_in;type:timestamptz;not null"`
	ClockOut       *time.Time `gorm:"column:clock_out;type:timestamptz"`
	Status         string     `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	Source         string     `gorm:"column:source;type:varchar(30);not null;default:MANUAL"`
	Notes          *string    `gorm:"column:notes;type:text"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}
