package attendance

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const pendingCompKeyPrefix = "comp:pending:"

// PendingCompensationSource reads the hours an employee has requested as
// time-for-time but not yet had approved. That queue belongs to the
// external time-tracking system; the balance ledger never stores it.
type PendingCompensationSource interface {
	PendingHours(ctx context.Context, employeeID string) (float64, error)
}

// redisPendingSource reads the per-employee pending figure the
// time-tracking system maintains in redis. A missing key means zero.
type redisPendingSource struct {
	rdb *redis.Client
}

func NewRedisPendingSource(rdb *redis.Client) PendingCompensationSource {
	return &redisPendingSource{rdb: rdb}
}

func (s *redisPendingSource) PendingHours(ctx context.Context, employeeID string) (float64, error) {
	val, err := s.rdb.Get(ctx, pendingCompKeyPrefix+employeeID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	hours, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, nil
	}
	return hours, nil
}
