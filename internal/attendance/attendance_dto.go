package attendance

import "hr-ledger/internal/balance"

// StatusResponse is the per-employee "current status" card: today's
// presence merged with the leave balance figures for the current year.
type StatusResponse struct {
	EmployeeID string                 `json:"employee_id"`
	Date       string                 `json:"date"`
	Presence   string                 `json:"presence"`
	ClockIn    *string                `json:"clock_in,omitempty"`
	ClockOut   *string                `json:"clock_out,omitempty"`
	Balance    balance.BalanceSummary `json:"leave_balance"`
}
