package stats

import "context"

// Repository manages daily rollup persistence. Get/Insert/Increment are the
// engine's in-transaction path; Replace/ListIDs/Delete serve the reconciler.
type Repository interface {
	// Get returns nil, nil when no rollup exists yet for the key.
	Get(ctx context.Context, id string) (*DailyStats, error)
	// Insert creates the first rollup document of the day for a station.
	Insert(ctx context.Context, s *DailyStats) error
	// Increment adds d to the scalar counters with the store's native
	// atomic increment. When operatorExists is false the operator's nested
	// entry is initialized from d instead of incremented; callers must
	// derive the flag from a pre-read inside the same transaction.
	Increment(ctx context.Context, id, operatorID string, d Delta, operatorExists bool) error
	// Replace overwrites (or creates) a rollup document wholesale.
	Replace(ctx context.Context, s *DailyStats) error
	ListIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
	// GetRange returns a station's rollups with date in [start, end],
	// both in DateLayout form.
	GetRange(ctx context.Context, stationID, start, end string) ([]*DailyStats, error)
}
