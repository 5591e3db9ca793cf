package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/fuelpoints-ledger/internal/domain/shared"
)

// WorkerPoolAuditService implements the AuditService interface
type WorkerPoolAuditService struct {
	baseService AuditService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolAuditService(
	baseService AuditService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolAuditService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolAuditService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// RecordTransaction submits an event to the worker pool for recording.
func (s *WorkerPoolAuditService) RecordTransaction(ctx context.Context, event *shared.TransactionEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Submitting event to worker pool",
		"idempotency_key", event.IdempotencyKey,
		"customer_id", event.CustomerID,
	)

	// Create a channel to receive the result of the recording
	resultChan := make(chan error, 1)

	// Store the result channel in the result map
	key := event.IdempotencyKey
	s.mu.Lock()
	s.results[key] = resultChan
	s.mu.Unlock()

	// Create a copy of the event to avoid data races
	eventCopy := *event

	// Submit the task to the worker pool
	err := s.pool.Submit(func() {
		// Record the event using the base service
		err := s.baseService.RecordTransaction(ctx, &eventCopy)

		// Send the result to the channel
		resultChan <- err

		// Remove the result channel from the map
		s.mu.Lock()
		delete(s.results, key)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, key)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit event to worker pool",
			"idempotency_key", event.IdempotencyKey,
			"error", err,
		)
		return err
	}

	// Wait for the result from the worker
	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolAuditService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolAuditService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolAuditService) Capacity() int {
	return s.pool.Cap()
}
