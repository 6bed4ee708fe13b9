package events

import "time"

const BalanceLedgerTopic = "hr.leave_balance.ledger.v1"

// BalanceUpdatedEvent is appended to the outbox in the same transaction
// as every single-row balance write. The outbox rows double as the
// append-only mutation history for the ledger.
type BalanceUpdatedEvent struct {
	EventType         string    `json:"event_type"`
	RequestID         string    `json:"request_id,omitempty"`
	EmployeeID        string    `json:"employee_id"`
	Year              int       `json:"year"`
	VacationDaysTotal float64   `json:"vacation_days_total"`
	VacationDaysUsed  float64   `json:"vacation_days_used"`
	SickDaysUsed      float64   `json:"sick_days_used"`
	SpecialLeaveUsed  float64   `json:"special_leave_used"`
	CompensationHours float64   `json:"compensation_hours"`
	CompensationUsed  float64   `json:"compensation_used"`
	UpdatedBy         string    `json:"updated_by"`
	Created           bool      `json:"created"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// BalanceBulkAppliedEvent records one completed bulk initialization run.
type BalanceBulkAppliedEvent struct {
	EventType          string    `json:"event_type"`
	RequestID          string    `json:"request_id,omitempty"`
	Year               int       `json:"year"`
	BaseVacationDays   float64   `json:"base_vacation_days"`
	CompensationHours  float64   `json:"compensation_hours"`
	EmployeesProcessed int       `json:"employees_processed"`
	EmployeesFailed    int       `json:"employees_failed"`
	AppliedBy          string    `json:"applied_by"`
	OccurredAt         time.Time `json:"occurred_at"`
}
