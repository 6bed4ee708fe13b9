package attendance

import (
	"context"
	"errors"
	"time"

	"hr-ledger/internal/balance"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	PresencePresent    = "PRESENT"
	PresenceLate       = "LATE"
	PresenceClockedOut = "CLOCKED_OUT"
	PresenceAbsent     = "ABSENT"
)

// BalanceSummarizer is the slice of the balance engine the correlator
// consumes.
type BalanceSummarizer interface {
	Summary(ctx context.Context, employeeID string, year int) (balance.BalanceSummary, error)
}

type Service interface {
	CurrentStatus(ctx context.Context, employeeID string) (StatusResponse, error)
}

type service struct {
	repo    Repository
	summary BalanceSummarizer
	pending PendingCompensationSource
	logger  *zap.Logger
}

func NewService(repo Repository, summary BalanceSummarizer, pending PendingCompensationSource, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{repo: repo, summary: summary, pending: pending, logger: l}
}

// CurrentStatus merges today's attendance row with this year's balance
// summary and the pending-compensation feed into one status card.
func (s *service) CurrentStatus(ctx context.Context, employeeID string) (StatusResponse, error) {
	now := time.Now().UTC()
	today := now.Truncate(24 * time.Hour)

	summary, err := s.summary.Summary(ctx, employeeID, now.Year())
	if err != nil {
		return StatusResponse{}, err
	}

	if s.pending != nil {
		hours, err := s.pending.PendingHours(ctx, employeeID)
		if err != nil {
			// The feed is best effort; a dead queue must not take the
			// status view down with it.
			s.logger.Warn("pending compensation feed unavailable",
				zap.String("employee_id", employeeID),
				zap.Error(err),
			)
		} else {
			summary.CompensationTime.Pending = hours
		}
	}

	resp := StatusResponse{
		EmployeeID: employeeID,
		Date:       today.Format("2006-01-02"),
		Presence:   PresenceAbsent,
		Balance:    summary,
	}

	row, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		return StatusResponse{}, err
	}

	clockIn := row.ClockIn.Format(time.RFC3339)
	resp.ClockIn = &clockIn
	resp.Presence = row.Status
	if row.ClockOut != nil {
		clockOut := row.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &clockOut
		resp.Presence = PresenceClockedOut
	}

	return resp, nil
}
