package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuelpoints-ledger/internal/domain/stats"
)

func TestReconcilerRebuild_MatchesIncrementalPath(t *testing.T) {
	store := seededStore(10000)
	eng := newTestEngine(store, nil, nil)

	// Mixed workload through the live commit path
	for i := 0; i < 10; i++ {
		req := creditRequest(fmt.Sprintf("tx-%02d", i))
		req.Amount = int64(500 + i*100)
		if i%3 == 0 {
			req.OperatorID = "op-2"
		}
		if i%4 == 0 {
			req.Redeem = true
			req.PointsToRedeem = 100
		}
		_, err := eng.Execute(context.Background(), req)
		require.NoError(t, err)
	}
	incremental := copyRollups(store.rollups)
	require.NotEmpty(t, incremental)

	// Corrupt the rollups to prove the rebuild actually recomputes them
	store.mu.Lock()
	for id, roll := range store.rollups {
		roll.TotalPointsDistributed += 999
		roll.TransactionCount = 0
		store.rollups[id] = roll
	}
	store.rollups["2020-01-01_st-ghost"] = stats.DailyStats{
		ID:        "2020-01-01_st-ghost",
		StationID: "st-ghost",
		Date:      "2020-01-01",
		Operators: map[string]stats.OperatorStats{},
	}
	store.mu.Unlock()

	rec := NewReconciler(testLogger(), memTransactions{store}, memStats{store}, 330*time.Minute, 4)
	report, err := rec.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, report.Records)
	assert.Equal(t, len(incremental), report.Rebuilt)
	assert.Equal(t, 1, report.Deleted)

	// The rebuilt state must be exactly what the incremental path produced
	assert.Equal(t, incremental, store.rollups)
}

func TestReconcilerRebuild_EmptyLedger(t *testing.T) {
	store := newMemStore()
	store.rollups["2026-01-01_st-1"] = stats.DailyStats{
		ID:        "2026-01-01_st-1",
		StationID: "st-1",
		Date:      "2026-01-01",
		Operators: map[string]stats.OperatorStats{},
	}

	rec := NewReconciler(testLogger(), memTransactions{store}, memStats{store}, 330*time.Minute, 2)
	report, err := rec.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Records)
	assert.Equal(t, 0, report.Rebuilt)
	assert.Equal(t, 1, report.Deleted)
	assert.Empty(t, store.rollups)
}

func TestReconcilerRebuild_GroupsByBusinessDate(t *testing.T) {
	store := seededStore(0)
	eng := newTestEngine(store, nil, nil)

	_, err := eng.Execute(context.Background(), creditRequest("tx-1"))
	require.NoError(t, err)

	// Shift the record's timestamp so its +05:30 business date crosses a
	// UTC midnight boundary
	store.mu.Lock()
	recEntry := store.records["tx-1"]
	recEntry.CreatedAt = time.Date(2026, 3, 9, 19, 30, 0, 0, time.UTC) // 01:00 on Mar 10th at +05:30
	store.records["tx-1"] = recEntry
	store.mu.Unlock()

	rec := NewReconciler(testLogger(), memTransactions{store}, memStats{store}, 330*time.Minute, 1)
	report, err := rec.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Rebuilt)
	roll, ok := store.rollups["2026-03-10_st-1"]
	require.True(t, ok, "record must land in the next local business day")
	assert.Equal(t, "2026-03-10", roll.Date)
	assert.Equal(t, int64(1), roll.TransactionCount)
}
