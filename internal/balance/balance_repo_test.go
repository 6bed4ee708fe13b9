package balance_test

import (
	"context"
	"testing"

	"hr-ledger/internal/balance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormWithMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestRepository_WithTx_RoutesWritesThroughTx(t *testing.T) {
	gormDB, poolMock := newGormWithMock(t)
	repo := balance.NewRepository(gormDB)

	txConn, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { txConn.Close() })

	txMock.ExpectBegin()
	txMock.ExpectQuery(`INSERT INTO "leave_balances"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	txMock.ExpectCommit()

	tx, err := txConn.Begin()
	assert.NoError(t, err)

	row := &balance.LeaveBalance{
		ID:            uuid.New(),
		EmployeeID:    uuid.New(),
		Year:          2026,
		LastUpdatedBy: uuid.New().String(),
	}
	assert.NoError(t, repo.WithTx(tx).Save(context.Background(), row))
	assert.NoError(t, tx.Commit())

	// The upsert rides the caller's transaction end to end; the pool
	// connection must not see a single statement.
	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRepository_WithTx_RolledBackWriteLeavesPoolUntouched(t *testing.T) {
	gormDB, poolMock := newGormWithMock(t)
	repo := balance.NewRepository(gormDB)

	txConn, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { txConn.Close() })

	txMock.ExpectBegin()
	txMock.ExpectQuery(`INSERT INTO "leave_balances"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	txMock.ExpectRollback()

	tx, err := txConn.Begin()
	assert.NoError(t, err)

	assert.NoError(t, repo.WithTx(tx).Save(context.Background(), &balance.LeaveBalance{
		ID:            uuid.New(),
		EmployeeID:    uuid.New(),
		Year:          2026,
		LastUpdatedBy: uuid.New().String(),
	}))
	assert.NoError(t, tx.Rollback())

	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRepository_WithTx_DoesNotRebindTheSharedPool(t *testing.T) {
	gormDB, poolMock := newGormWithMock(t)
	repo := balance.NewRepository(gormDB)

	txConn, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { txConn.Close() })

	txMock.ExpectBegin()
	tx, err := txConn.Begin()
	assert.NoError(t, err)
	_ = repo.WithTx(tx)

	// Deriving a tx-bound repository must not poison the original: reads
	// on the plain repository still go to the pool.
	poolMock.ExpectQuery(`SELECT count\(\*\) FROM "employees"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.EmployeeExists(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, poolMock.ExpectationsWereMet())
}
