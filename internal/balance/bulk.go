package balance

import (
	"context"
	"fmt"
	"sync"
	"time"

	balanceerrors "hr-ledger/internal/balance/errors"
	"hr-ledger/internal/events"
	"hr-ledger/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	bulkLockKeyPrefix = "balance:bulk:lock:"
	bulkLockTTL       = 5 * time.Minute
	bulkMaxParallel   = 8
)

func bulkLockKey(year int) string {
	return fmt.Sprintf("%s%d", bulkLockKeyPrefix, year)
}

// BulkInitialize overwrites every employee's balance row for the year with
// the policy-resolved defaults. This is destructive: previously recorded
// usage for that year is reset to zero and notes on existing rows are
// cleared. Operators re-running a year lose any manual corrections made
// since the last run.
//
// Employees mutate disjoint rows and are processed in parallel. Atomicity
// is per row, not per batch: a failing employee does not stop the others,
// and cancelling mid-run leaves already-committed rows committed. Two runs
// for the same year are kept mutually exclusive by a short-lived redis
// lock keyed by year; without a redis client the caller owns that
// single-writer-per-year discipline.
func (s *service) BulkInitialize(ctx context.Context, actor Actor, year int, defaults BulkDefaultSettings) (BulkInitializeResult, error) {
	rid := contextutil.GetRequestID(ctx)
	result := BulkInitializeResult{Year: year}

	if actor.ID == "" {
		return result, balanceerrors.ErrInvalidActorID
	}
	if !actor.CanWrite() {
		return result, balanceerrors.ErrActorNotAuthorized
	}
	if year <= 0 {
		return result, balanceerrors.ErrInvalidYear
	}
	if defaults.VacationDaysTotal < 0 {
		return result, balanceerrors.NegativeField("vacation_days_total")
	}
	if defaults.CompensationHours < 0 {
		return result, balanceerrors.NegativeField("compensation_hours")
	}

	if s.rdb != nil {
		acquired, err := s.rdb.SetNX(ctx, bulkLockKey(year), actor.ID, bulkLockTTL).Result()
		if err != nil {
			s.logger.Error("bulk initialize lock acquire failed", zap.Int("year", year), zap.Error(err))
			return result, balanceerrors.ErrStoreUnavailable
		}
		if !acquired {
			s.logger.Warn("bulk initialize already in progress", zap.Int("year", year))
			return result, balanceerrors.ErrBulkInProgress
		}
		defer s.rdb.Del(context.WithoutCancel(ctx), bulkLockKey(year))
	}

	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		s.logger.Error("bulk initialize list employees failed", zap.Error(err))
		return result, mapRepositoryError(err)
	}

	s.logger.Info("bulk initialize started",
		zap.String("request_id", rid),
		zap.Int("year", year),
		zap.Int("employees", len(employees)),
		zap.Float64("base_vacation_days", defaults.VacationDaysTotal),
		zap.Float64("compensation_hours", defaults.CompensationHours),
	)

	var (
		mu        sync.Mutex
		processed int
		failures  []balanceerrors.BulkFailure
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkMaxParallel)

	for _, emp := range employees {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := s.initializeEmployeeRow(gctx, actor, emp, year, defaults); err != nil {
				s.logger.Warn("bulk initialize employee failed",
					zap.String("employee_id", emp.ID.String()),
					zap.Int("year", year),
					zap.Error(err),
				)
				mu.Lock()
				failures = append(failures, balanceerrors.BulkFailure{
					EmployeeID: emp.ID.String(),
					Reason:     err.Error(),
				})
				mu.Unlock()
				// Failures are reported, never propagated: one employee
				// must not stop the rest of the workforce.
				return nil
			}
			mu.Lock()
			processed++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	result.EmployeesProcessed = processed

	if s.outbox != nil {
		s.appendBulkEvent(ctx, rid, actor, year, defaults, processed, len(failures))
	}

	s.logger.Info("bulk initialize finished",
		zap.String("request_id", rid),
		zap.Int("year", year),
		zap.Int("processed", processed),
		zap.Int("failed", len(failures)),
	)

	if len(failures) > 0 {
		return result, &balanceerrors.PartialFailureError{
			Processed: processed,
			Failures:  failures,
		}
	}
	return result, nil
}

// initializeEmployeeRow builds and persists the policy-resolved overwrite
// row for one employee, atomically with its outbox event.
func (s *service) initializeEmployeeRow(ctx context.Context, actor Actor, emp EmployeeRef, year int, defaults BulkDefaultSettings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	now := time.Now().UTC()
	row := &LeaveBalance{
		ID:                uuid.New(),
		EmployeeID:        emp.ID,
		Year:              year,
		VacationDaysTotal: ResolveVacationEntitlement(emp.EmployeeType, defaults.VacationDaysTotal),
		VacationDaysUsed:  0,
		SickDaysUsed:      0,
		SpecialLeaveUsed:  0,
		CompensationHours: roundToQuarterHour(defaults.CompensationHours),
		CompensationUsed:  0,
		Notes:             nil,
		LastUpdatedBy:     actor.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := qtx.Save(ctx, row); err != nil {
		return mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.BalanceUpdatedEvent{
			EventType:         "balance_bulk_overwritten",
			RequestID:         contextutil.GetRequestID(ctx),
			EmployeeID:        emp.ID.String(),
			Year:              year,
			VacationDaysTotal: row.VacationDaysTotal,
			CompensationHours: row.CompensationHours,
			UpdatedBy:         actor.ID,
			OccurredAt:        now,
		}
		if err := s.appendOutbox(ctx, tx, event.RequestID, event.EmployeeID, event.EventType, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

func (s *service) appendBulkEvent(ctx context.Context, rid string, actor Actor, year int, defaults BulkDefaultSettings, processed, failed int) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("bulk initialize event tx failed", zap.Error(err))
		return
	}
	defer tx.Rollback()

	event := events.BalanceBulkAppliedEvent{
		EventType:          "balance_bulk_applied",
		RequestID:          rid,
		Year:               year,
		BaseVacationDays:   defaults.VacationDaysTotal,
		CompensationHours:  defaults.CompensationHours,
		EmployeesProcessed: processed,
		EmployeesFailed:    failed,
		AppliedBy:          actor.ID,
		OccurredAt:         time.Now().UTC(),
	}
	if err := s.appendOutbox(ctx, tx, rid, fmt.Sprintf("%d", year), event.EventType, event); err != nil {
		s.logger.Error("bulk initialize event persist failed", zap.Error(err))
		return
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("bulk initialize event commit failed", zap.Error(err))
	}
}
