package transaction

import (
	"context"
	"time"
)

// Filter narrows station ledger queries. Zero values mean "no constraint".
type Filter struct {
	Start      time.Time
	End        time.Time
	FuelType   string
	OperatorID string
}

// Repository manages the append-only transaction ledger
type Repository interface {
	// Insert stores a new record, returning ErrDuplicateRecord if the
	// idempotency key is already present.
	Insert(ctx context.Context, rec *Record) error
	GetByKey(ctx context.Context, idempotencyKey string) (*Record, error)
	ListByStation(ctx context.Context, stationID string, filter Filter, limit, offset int) ([]*Record, error)
	CountByStation(ctx context.Context, stationID string, filter Filter) (int64, error)
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*Record, error)
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
	// ForEach streams every record in the ledger to fn, stopping at the
	// first error. Used by the aggregate rebuild pass.
	ForEach(ctx context.Context, fn func(rec *Record) error) error
}

// ErrRecordNotFound indicates a missing ledger record
type ErrRecordNotFound struct {
	IdempotencyKey string
}

func (e ErrRecordNotFound) Error() string {
	return "transaction record not found: " + e.IdempotencyKey
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	// An empty target key matches any ErrRecordNotFound
	if t.IdempotencyKey == "" {
		return true
	}
	return e.IdempotencyKey == t.IdempotencyKey
}

// ErrDuplicateRecord indicates the idempotency key is already used
type ErrDuplicateRecord struct {
	IdempotencyKey string
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate transaction record: " + e.IdempotencyKey
}

// Is implements the errors.Is interface for ErrDuplicateRecord
func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	if t.IdempotencyKey == "" {
		return true
	}
	return e.IdempotencyKey == t.IdempotencyKey
}
