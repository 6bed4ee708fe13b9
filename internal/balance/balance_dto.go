package balance

// UpsertBalanceRequest is the single-row edit payload. Numeric fields are
// pointers: a nil field is "not supplied" (kept on update, zeroed on
// create, except vacation_days_total which defaults to the standard
// entitlement on create). A present field is a full overwrite of that
// column, mirroring the admin form sending the whole edited record back.
type UpsertBalanceRequest struct {
	VacationDaysTotal *float64 `json:"vacation_days_total"`
	VacationDaysUsed  *float64 `json:"vacation_days_used"`
	SickDaysUsed      *float64 `json:"sick_days_used"`
	SpecialLeaveUsed  *float64 `json:"special_leave_used"`
	CompensationHours *float64 `json:"compensation_hours"`
	CompensationUsed  *float64 `json:"compensation_used"`
	Notes             *string  `json:"notes"`
}

type BulkDefaultSettings struct {
	VacationDaysTotal float64 `json:"vacation_days_total" binding:"required,gte=0"`
	CompensationHours float64 `json:"compensation_hours" binding:"gte=0"`
}

type BulkInitializeRequest struct {
	DefaultSettings BulkDefaultSettings `json:"default_settings" binding:"required"`
}

type BalanceResponse struct {
	ID                    string  `json:"id"`
	EmployeeID            string  `json:"employee_id"`
	Year                  int     `json:"year"`
	VacationDaysTotal     float64 `json:"vacation_days_total"`
	VacationDaysUsed      float64 `json:"vacation_days_used"`
	VacationDaysRemaining float64 `json:"vacation_days_remaining"`
	SickDaysUsed          float64 `json:"sick_days_used"`
	SpecialLeaveUsed      float64 `json:"special_leave_used"`
	CompensationHours     float64 `json:"compensation_hours"`
	CompensationUsed      float64 `json:"compensation_used"`
	CompensationBalance   float64 `json:"compensation_balance"`
	Notes                 *string `json:"notes,omitempty"`
	LastUpdatedBy         string  `json:"last_updated_by,omitempty"`
	UpdatedAt             string  `json:"updated_at,omitempty"`
}

// YearViewEmployee joins one employee with their balance for the year.
// Synthesized is true when no persisted row exists and the balance shown
// is the in-memory default.
type YearViewEmployee struct {
	ID           string          `json:"id"`
	FullName     string          `json:"full_name"`
	Email        string          `json:"email"`
	EmployeeType string          `json:"employee_type"`
	Balance      BalanceResponse `json:"leave_balance"`
	Synthesized  bool            `json:"synthesized,omitempty"`
}

type YearViewResponse struct {
	Year           int                `json:"year"`
	TotalEmployees int                `json:"total_employees"`
	Employees      []YearViewEmployee `json:"employees"`
}

type BulkInitializeResult struct {
	Year               int `json:"year"`
	EmployeesProcessed int `json:"employees_processed"`
}

type VacationSummary struct {
	Entitled  float64 `json:"entitled"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}

type SickSummary struct {
	Used float64 `json:"used"`
}

type CompensationSummary struct {
	Available float64 `json:"available"`
	Used      float64 `json:"used"`
	Pending   float64 `json:"pending"`
}

// BalanceSummary is the correlator-facing read shape. Pending comes from
// the external time-tracking queue, never from the ledger; this engine
// always fills it with zero.
type BalanceSummary struct {
	EmployeeID       string              `json:"employee_id"`
	Year             int                 `json:"year"`
	VacationDays     VacationSummary     `json:"vacation_days"`
	SickDays         SickSummary         `json:"sick_days"`
	CompensationTime CompensationSummary `json:"compensation_time"`
}
