package balance

import (
	"context"
	"errors"

	balanceerrors "hr-ledger/internal/balance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildYearView joins the full roster against the year's balance rows.
// Employees without a row get a synthesized default balance so dashboards
// can show "25 / 25 days" for an untouched employee; the synthesis stays
// in memory and is never written back. Ordering follows the roster query
// (full name, then id) and is stable across calls.
func (s *service) BuildYearView(ctx context.Context, year int) (YearViewResponse, error) {
	if year <= 0 {
		return YearViewResponse{}, balanceerrors.ErrInvalidYear
	}

	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		s.logger.Error("year view list employees failed", zap.Error(err))
		return YearViewResponse{}, mapRepositoryError(err)
	}

	balances, err := s.repo.FindAllByYear(ctx, year)
	if err != nil {
		s.logger.Error("year view load balances failed", zap.Int("year", year), zap.Error(err))
		return YearViewResponse{}, mapRepositoryError(err)
	}

	byEmployee := make(map[uuid.UUID]LeaveBalance, len(balances))
	for _, b := range balances {
		byEmployee[b.EmployeeID] = b
	}

	view := YearViewResponse{
		Year:           year,
		TotalEmployees: len(employees),
		Employees:      make([]YearViewEmployee, 0, len(employees)),
	}

	for _, emp := range employees {
		entry := YearViewEmployee{
			ID:           emp.ID.String(),
			FullName:     emp.FullName,
			Email:        emp.Email,
			EmployeeType: emp.EmployeeType,
		}
		if row, ok := byEmployee[emp.ID]; ok {
			entry.Balance = mapToResponse(row)
		} else {
			entry.Balance = mapToResponse(synthesizeDefault(emp.ID, year))
			entry.Synthesized = true
		}
		view.Employees = append(view.Employees, entry)
	}

	return view, nil
}

// Summary shapes one employee's balance for embedding into attendance
// payloads. Pending compensation lives in the external time-tracking
// queue; the correlator fills it in, this engine reports zero.
func (s *service) Summary(ctx context.Context, employeeID string, year int) (BalanceSummary, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return BalanceSummary{}, balanceerrors.ErrInvalidEmployeeID
	}
	if year <= 0 {
		return BalanceSummary{}, balanceerrors.ErrInvalidYear
	}

	exists, err := s.repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		return BalanceSummary{}, mapRepositoryError(err)
	}
	if !exists {
		return BalanceSummary{}, balanceerrors.ErrEmployeeNotFound
	}

	row, err := s.repo.FindByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceSummary{}, mapRepositoryError(err)
		}
		synthesized := synthesizeDefault(uuid.MustParse(employeeID), year)
		row = &synthesized
	}

	return BalanceSummary{
		EmployeeID: employeeID,
		Year:       year,
		VacationDays: VacationSummary{
			Entitled:  row.VacationDaysTotal,
			Used:      row.VacationDaysUsed,
			Remaining: row.VacationDaysRemaining(),
		},
		SickDays: SickSummary{
			Used: row.SickDaysUsed,
		},
		CompensationTime: CompensationSummary{
			// Available keeps its sign: overdrawn time-for-time renders
			// as a negative duration, never clamped.
			Available: row.CompensationBalance(),
			Used:      row.CompensationUsed,
			Pending:   0,
		},
	}, nil
}

func synthesizeDefault(employeeID uuid.UUID, year int) LeaveBalance {
	return LeaveBalance{
		EmployeeID:        employeeID,
		Year:              year,
		VacationDaysTotal: DefaultVacationDays,
	}
}
