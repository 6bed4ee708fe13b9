package balance

import (
	"context"
	"errors"
	"net"

	balanceerrors "hr-ledger/internal/balance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError classifies store failures. Connection-class errors
// become ErrStoreUnavailable so callers know the write is safe to retry
// (single-row upserts are idempotent under last-writer-wins).
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return balanceerrors.ErrStoreUnavailable
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return balanceerrors.ErrStoreUnavailable
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 = connection exception, 57P0x = shutdown/crash,
		// 53xxx = insufficient resources. All transient.
		switch {
		case len(pgErr.Code) == 5 && pgErr.Code[:2] == "08",
			len(pgErr.Code) == 5 && pgErr.Code[:2] == "53",
			pgErr.Code == "57P01", pgErr.Code == "57P02", pgErr.Code == "57P03":
			return balanceerrors.ErrStoreUnavailable
		}
	}

	if pgconn.SafeToRetry(err) {
		return balanceerrors.ErrStoreUnavailable
	}

	return err
}
