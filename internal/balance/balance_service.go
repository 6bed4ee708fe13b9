package balance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"time"

	balanceerrors "hr-ledger/internal/balance/errors"
	"hr-ledger/internal/events"
	"hr-ledger/internal/messaging/kafka"
	"hr-ledger/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
)

// Actor is the capability object every write carries: the authenticated
// identity and role of the administrator performing the mutation. The
// HTTP layer authenticates; the engine checks the role once here at its
// boundary instead of relying on ambient session state.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) CanWrite() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}

type Service interface {
	Upsert(ctx context.Context, actor Actor, employeeID string, year int, req UpsertBalanceRequest) (BalanceResponse, error)
	BulkInitialize(ctx context.Context, actor Actor, year int, defaults BulkDefaultSettings) (BulkInitializeResult, error)
	BuildYearView(ctx context.Context, year int) (YearViewResponse, error)
	Summary(ctx context.Context, employeeID string, year int) (BalanceSummary, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		logger: l,
	}
}

// Upsert creates or fully overwrites the (employee, year) balance row.
// A missing row is created, never reported as not found; only a missing
// employee is. Supplied fields replace the stored column, absent fields
// are kept (zeroed on create, vacation_days_total defaulting to the
// standard entitlement).
func (s *service) Upsert(ctx context.Context, actor Actor, employeeID string, year int, req UpsertBalanceRequest) (BalanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("upsert balance requested",
		zap.String("request_id", rid),
		zap.String("actor_id", actor.ID),
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
	)

	if actor.ID == "" {
		return BalanceResponse{}, balanceerrors.ErrInvalidActorID
	}
	if !actor.CanWrite() {
		s.logger.Warn("upsert balance actor not authorized",
			zap.String("actor_id", actor.ID),
			zap.String("role", actor.Role),
		)
		return BalanceResponse{}, balanceerrors.ErrActorNotAuthorized
	}

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return BalanceResponse{}, balanceerrors.ErrInvalidEmployeeID
	}
	if year <= 0 {
		return BalanceResponse{}, balanceerrors.ErrInvalidYear
	}
	if err := validateUpsertRequest(req); err != nil {
		s.logger.Warn("upsert balance validation failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("upsert balance begin tx failed", zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.EmployeeExists(ctx, employeeID)
	if err != nil {
		s.logger.Error("upsert balance employee check failed", zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err)
	}
	if !exists {
		return BalanceResponse{}, balanceerrors.ErrEmployeeNotFound
	}

	now := time.Now().UTC()
	created := false

	row, err := qtx.FindByEmployeeAndYear(ctx, employeeID, year)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("upsert balance load failed", zap.Error(err))
			return BalanceResponse{}, mapRepositoryError(err)
		}
		created = true
		row = &LeaveBalance{
			ID:                uuid.New(),
			EmployeeID:        employeeUUID,
			Year:              year,
			VacationDaysTotal: DefaultVacationDays,
			CreatedAt:         now,
		}
	}

	applyUpsertRequest(row, req)
	row.LastUpdatedBy = actor.ID
	row.UpdatedAt = now

	if err := qtx.Save(ctx, row); err != nil {
		s.logger.Error("upsert balance persist failed", zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.BalanceUpdatedEvent{
			EventType:         "balance_updated",
			RequestID:         rid,
			EmployeeID:        employeeID,
			Year:              year,
			VacationDaysTotal: row.VacationDaysTotal,
			VacationDaysUsed:  row.VacationDaysUsed,
			SickDaysUsed:      row.SickDaysUsed,
			SpecialLeaveUsed:  row.SpecialLeaveUsed,
			CompensationHours: row.CompensationHours,
			CompensationUsed:  row.CompensationUsed,
			UpdatedBy:         actor.ID,
			Created:           created,
			OccurredAt:        now,
		}
		if err := s.appendOutbox(ctx, tx, rid, employeeID, event.EventType, event); err != nil {
			s.logger.Error("upsert balance outbox persist failed", zap.Error(err))
			return BalanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("upsert balance commit failed", zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("upsert balance success",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
		zap.Bool("created", created),
	)

	return mapToResponse(*row), nil
}

func (s *service) appendOutbox(ctx context.Context, tx *sql.Tx, rid, aggregateID, eventType string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_balance",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         events.BalanceLedgerTopic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

// validateUpsertRequest rejects negative raw fields. The derived
// compensation balance may go negative; the stored columns never do.
func validateUpsertRequest(req UpsertBalanceRequest) error {
	checks := []struct {
		field string
		value *float64
	}{
		{"vacation_days_total", req.VacationDaysTotal},
		{"vacation_days_used", req.VacationDaysUsed},
		{"sick_days_used", req.SickDaysUsed},
		{"special_leave_used", req.SpecialLeaveUsed},
		{"compensation_hours", req.CompensationHours},
		{"compensation_used", req.CompensationUsed},
	}
	for _, c := range checks {
		if c.value != nil && *c.value < 0 {
			return balanceerrors.NegativeField(c.field)
		}
	}
	return nil
}

func applyUpsertRequest(row *LeaveBalance, req UpsertBalanceRequest) {
	if req.VacationDaysTotal != nil {
		row.VacationDaysTotal = *req.VacationDaysTotal
	}
	if req.VacationDaysUsed != nil {
		row.VacationDaysUsed = *req.VacationDaysUsed
	}
	if req.SickDaysUsed != nil {
		row.SickDaysUsed = *req.SickDaysUsed
	}
	if req.SpecialLeaveUsed != nil {
		row.SpecialLeaveUsed = *req.SpecialLeaveUsed
	}
	if req.CompensationHours != nil {
		row.CompensationHours = roundToQuarterHour(*req.CompensationHours)
	}
	if req.CompensationUsed != nil {
		row.CompensationUsed = roundToQuarterHour(*req.CompensationUsed)
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}
}

// Compensation time is tracked at quarter-hour granularity.
func roundToQuarterHour(hours float64) float64 {
	return math.Round(hours*4) / 4
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	id := ""
	if b.ID != uuid.Nil {
		id = b.ID.String()
	}
	resp := BalanceResponse{
		ID:                    id,
		EmployeeID:            b.EmployeeID.String(),
		Year:                  b.Year,
		VacationDaysTotal:     b.VacationDaysTotal,
		VacationDaysUsed:      b.VacationDaysUsed,
		VacationDaysRemaining: b.VacationDaysRemaining(),
		SickDaysUsed:          b.SickDaysUsed,
		SpecialLeaveUsed:      b.SpecialLeaveUsed,
		CompensationHours:     b.CompensationHours,
		CompensationUsed:      b.CompensationUsed,
		CompensationBalance:   b.CompensationBalance(),
		Notes:                 b.Notes,
		LastUpdatedBy:         b.LastUpdatedBy,
	}
	if !b.UpdatedAt.IsZero() {
		resp.UpdatedAt = b.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
