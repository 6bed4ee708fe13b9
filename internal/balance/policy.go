package balance

import "math"

const (
	EmployeeTypePermanent  = "PERMANENT"
	EmployeeTypeFreelancer = "FREELANCER"
	EmployeeTypeFlexWorker = "FLEX_WORKER"
)

// DefaultVacationDays is the organization-wide standard entitlement used
// when a balance row is created without an explicit total.
const DefaultVacationDays = 25.0

// ResolveVacationEntitlement maps an employment type and a base
// entitlement onto the effective vacation days for a year:
//
//	PERMANENT   -> baseDays unchanged
//	FLEX_WORKER -> round-half-up of baseDays * 0.6
//	FREELANCER  -> 0 (no vacation accrual)
//
// Unrecognized types get the full PERMANENT entitlement. That fallback is
// deliberate: callers validate the type beforehand, and shorting an
// employee on a typo would be worse than over-granting. Flagged for
// product confirmation.
func ResolveVacationEntitlement(employeeType string, baseDays float64) float64 {
	if baseDays < 0 {
		baseDays = 0
	}

	switch employeeType {
	case EmployeeTypeFreelancer:
		return 0
	case EmployeeTypeFlexWorker:
		return math.Floor(baseDays*0.6 + 0.5)
	default:
		return baseDays
	}
}
