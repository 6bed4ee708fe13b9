package balance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployeeAndYear(ctx context.Context, employeeID string, year int) (*LeaveBalance, error)
	FindAllByYear(ctx context.Context, year int) ([]LeaveBalance, error)
	Save(ctx context.Context, b *LeaveBalance) error
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
	ListEmployees(ctx context.Context) ([]EmployeeRef, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the repository's statements to the caller's transaction,
// so a balance write and its outbox append commit or roll back together.
// gorm sees the *sql.Tx as an already-open transaction and skips its own
// begin/commit wrapping.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{Context: r.db.Statement.Context, NewDB: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) FindByEmployeeAndYear(ctx context.Context, employeeID string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindAllByYear(ctx context.Context, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Find(&balances).Error
	return balances, err
}

// Save upserts on (employee_id, year). Concurrent writers against the same
// row serialize at the database and the later commit wins; the engine
// carries no version column. Accepted limitation, see the bulk operation
// docs for the per-year lock that keeps whole-workforce runs exclusive.
func (r *repository) Save(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"vacation_days_total",
				"vacation_days_used",
				"sick_days_used",
				"special_leave_used",
				"compensation_hours",
				"compensation_used",
				"notes",
				"last_updated_by",
				"updated_at",
			}),
		}).
		Create(b).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

// ListEmployees returns the roster ordered by full name then id, so year
// views stay stable across repeated calls.
func (r *repository) ListEmployees(ctx context.Context) ([]EmployeeRef, error) {
	var employees []EmployeeRef
	err := r.db.WithContext(ctx).
		Order("full_name ASC, id ASC").
		Find(&employees).Error
	return employees, err
}
