package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fuelpoints-ledger/internal/domain/stats"
	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

// Reconciler rebuilds every daily rollup directly from the transaction
// ledger. It is an offline maintenance path, never scheduled alongside the
// engine's incremental writes: the engine is the sole incremental writer of
// rollup state, and the reconciler is only run by an operator to repair it.
// Running against a live ledger is safe; a rebuild racing an in-flight
// commit may trail it by one transaction until the next run.
type Reconciler struct {
	transactions transaction.Repository
	dailyStats   stats.Repository
	offset       time.Duration
	poolSize     int
	logger       *slog.Logger
}

// RebuildReport summarizes one rebuild pass
type RebuildReport struct {
	Records  int // Ledger records scanned
	Rebuilt  int // Rollup documents written
	Deleted  int // Stale rollup documents removed
	Duration time.Duration
}

// NewReconciler creates a reconciler writing through a pool of poolSize workers
func NewReconciler(logger *slog.Logger, transactions transaction.Repository, dailyStats stats.Repository, offset time.Duration, poolSize int) *Reconciler {
	if poolSize <= 0 {
		poolSize = 1
	}
	return &Reconciler{
		transactions: transactions,
		dailyStats:   dailyStats,
		offset:       offset,
		poolSize:     poolSize,
		logger:       logger,
	}
}

// Rebuild recomputes every (business date, station) rollup from scratch by
// summing the ledger, overwrites one document per group, and deletes any
// existing rollup whose key is absent from the recomputed set (a record's
// business date may have moved after a bucketing fix).
func (r *Reconciler) Rebuild(ctx context.Context) (*RebuildReport, error) {
	start := time.Now()

	groups := make(map[string]*stats.DailyStats)
	records := 0
	err := r.transactions.ForEach(ctx, func(rec *transaction.Record) error {
		records++
		date := stats.BusinessDate(rec.CreatedAt, r.offset)
		id := stats.DocumentID(date, rec.StationID)
		d := stats.DeltaFromRecord(rec)
		if group, ok := groups[id]; ok {
			group.Apply(rec.OperatorID, d)
		} else {
			groups[id] = stats.New(date, rec.StationID, rec.OperatorID, d)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ledger scan failed: %w", err)
	}

	r.logger.Info("Ledger scan complete",
		"records", records,
		"groups", len(groups))

	if err := r.writeGroups(ctx, groups); err != nil {
		return nil, err
	}

	// Cleanup pass: drop rollups no longer backed by any ledger record.
	existing, err := r.dailyStats.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list existing rollups: %w", err)
	}
	deleted := 0
	for _, id := range existing {
		if _, ok := groups[id]; ok {
			continue
		}
		r.logger.Info("Deleting stale rollup", "stats_id", id)
		if err := r.dailyStats.Delete(ctx, id); err != nil {
			return nil, err
		}
		deleted++
	}

	report := &RebuildReport{
		Records:  records,
		Rebuilt:  len(groups),
		Deleted:  deleted,
		Duration: time.Since(start),
	}
	r.logger.Info("Rebuild complete",
		"records", report.Records,
		"rebuilt", report.Rebuilt,
		"deleted", report.Deleted,
		"duration", report.Duration)
	return report, nil
}

// writeGroups overwrites the recomputed rollups through a worker pool.
// Groups are independent documents, so write order does not matter.
func (r *Reconciler) writeGroups(ctx context.Context, groups map[string]*stats.DailyStats) error {
	pool, err := ants.NewPool(r.poolSize)
	if err != nil {
		return fmt.Errorf("failed to create rebuild worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		writeErrs []error
	)
	for _, group := range groups {
		group := group
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := r.dailyStats.Replace(ctx, group); err != nil {
				mu.Lock()
				writeErrs = append(writeErrs, err)
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			writeErrs = append(writeErrs, fmt.Errorf("failed to submit rollup write: %w", submitErr))
			mu.Unlock()
		}
	}
	wg.Wait()

	if len(writeErrs) > 0 {
		return fmt.Errorf("rollup writes failed: %w", errors.Join(writeErrs...))
	}
	return nil
}
