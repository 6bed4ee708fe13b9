package balance_test

import (
	"context"
	"testing"

	"hr-ledger/internal/balance"
	balanceerrors "hr-ledger/internal/balance/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestBalanceService_BuildYearView_SynthesizesMissingRows(t *testing.T) {
	deps := setupBalanceServiceTest(t)
	roster, _ := rosterOfThree()
	withRow := roster[0]

	deps.repo.listEmployeesFn = func(ctx context.Context) ([]balance.EmployeeRef, error) {
		return roster, nil
	}
	deps.repo.findAllByYearFn = func(ctx context.Context, year int) ([]balance.LeaveBalance, error) {
		return []balance.LeaveBalance{{
			ID:                uuid.New(),
			EmployeeID:        withRow.ID,
			Year:              year,
			VacationDaysTotal: 30,
			VacationDaysUsed:  12,
		}}, nil
	}

	saveCalls := 0
	deps.repo.saveFn = func(ctx context.Context, b *balance.LeaveBalance) error {
		saveCalls++
		return nil
	}

	view, err := deps.service.BuildYearView(context.Background(), 2026)
	assert.NoError(t, err)
	assert.Equal(t, 2026, view.Year)
	assert.Equal(t, 3, view.TotalEmployees)
	assert.Len(t, view.Employees, 3)

	// Persisted row comes back as-is.
	assert.Equal(t, withRow.ID.String(), view.Employees[0].ID)
	assert.False(t, view.Employees[0].Synthesized)
	assert.Equal(t, 30.0, view.Employees[0].Balance.VacationDaysTotal)
	assert.Equal(t, 18.0, view.Employees[0].Balance.VacationDaysRemaining)

	// The other two get in-memory defaults, nothing is written back.
	for _, entry := range view.Employees[1:] {
		assert.True(t, entry.Synthesized)
		assert.Equal(t, 25.0, entry.Balance.VacationDaysTotal)
		assert.Equal(t, 25.0, entry.Balance.VacationDaysRemaining)
		assert.Zero(t, entry.Balance.VacationDaysUsed)
		assert.Empty(t, entry.Balance.ID)
	}
	assert.Zero(t, saveCalls)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestBalanceService_BuildYearView_StableOrdering(t *testing.T) {
	deps := setupBalanceServiceTest(t)
	roster, _ := rosterOfThree()
	deps.repo.listEmployeesFn = func(ctx context.Context) ([]balance.EmployeeRef, error) {
		return roster, nil
	}

	first, err := deps.service.BuildYearView(context.Background(), 2026)
	assert.NoError(t, err)
	second, err := deps.service.BuildYearView(context.Background(), 2026)
	assert.NoError(t, err)
	assert.Equal(t, first, second)

	for i, emp := range roster {
		assert.Equal(t, emp.ID.String(), first.Employees[i].ID)
	}
}

func TestBalanceService_BuildYearView_InvalidYear(t *testing.T) {
	deps := setupBalanceServiceTest(t)
	_, err := deps.service.BuildYearView(context.Background(), 0)
	assert.ErrorIs(t, err, balanceerrors.ErrInvalidYear)
}

func TestBalanceService_Summary_PersistedRow(t *testing.T) {
	deps := setupBalanceServiceTest(t)
	employeeID := uuid.New()

	deps.repo.findByEmployeeAndYear = func(ctx context.Context, id string, year int) (*balance.LeaveBalance, error) {
		return &balance.LeaveBalance{
			EmployeeID:        employeeID,
			Year:              2026,
			VacationDaysTotal: 25,
			VacationDaysUsed:  6.5,
			SickDaysUsed:      3,
			CompensationHours: 4,
			CompensationUsed:  12.5,
		}, nil
	}

	summary, err := deps.service.Summary(context.Background(), employeeID.String(), 2026)
	assert.NoError(t, err)
	assert.Equal(t, employeeID.String(), summary.EmployeeID)
	assert.Equal(t, 25.0, summary.VacationDays.Entitled)
	assert.Equal(t, 18.5, summary.VacationDays.Remaining)
	assert.Equal(t, 3.0, summary.SickDays.Used)
	// Overdrawn time-for-time stays negative.
	assert.Equal(t, -8.5, summary.CompensationTime.Available)
	assert.Zero(t, summary.CompensationTime.Pending)
}

func TestBalanceService_Summary_SynthesizedWhenNoRow(t *testing.T) {
	deps := setupBalanceServiceTest(t)

	summary, err := deps.service.Summary(context.Background(), uuid.New().String(), 2026)
	assert.NoError(t, err)
	assert.Equal(t, 25.0, summary.VacationDays.Entitled)
	assert.Equal(t, 25.0, summary.VacationDays.Remaining)
	assert.Zero(t, summary.CompensationTime.Available)
}

func TestBalanceService_Summary_UnknownEmployee(t *testing.T) {
	deps := setupBalanceServiceTest(t)
	deps.repo.employeeExistsFn = func(ctx context.Context, employeeID string) (bool, error) {
		return false, nil
	}

	_, err := deps.service.Summary(context.Background(), uuid.New().String(), 2026)
	assert.ErrorIs(t, err, balanceerrors.ErrEmployeeNotFound)
}

func TestBalanceService_Summary_StoreErrorMapped(t *testing.T) {
	deps := setupBalanceServiceTest(t)
	deps.repo.findByEmployeeAndYear = func(ctx context.Context, id string, year int) (*balance.LeaveBalance, error) {
		return nil, context.DeadlineExceeded
	}

	_, err := deps.service.Summary(context.Background(), uuid.New().String(), 2026)
	assert.ErrorIs(t, err, balanceerrors.ErrStoreUnavailable)
}

func TestBalanceService_Summary_NotFoundIsNotAnError(t *testing.T) {
	deps := setupBalanceServiceTest(t)
	deps.repo.findByEmployeeAndYear = func(ctx context.Context, id string, year int) (*balance.LeaveBalance, error) {
		return nil, gorm.ErrRecordNotFound
	}

	_, err := deps.service.Summary(context.Background(), uuid.New().String(), 2026)
	assert.NoError(t, err)
}
