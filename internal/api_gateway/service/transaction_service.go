package service

import (
	"context"
	"log/slog"

	"github.com/fuelpoints-ledger/internal/domain/shared"
)

// Executor is the commit entry point of the transaction engine. An interface
// here keeps the HTTP layer testable without standing up real stores.
type Executor interface {
	Execute(ctx context.Context, req *shared.ExecuteRequest) (*shared.ExecuteResult, error)
}

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	engine Executor
	logger *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(logger *slog.Logger, engine Executor) TransactionService {
	return &TransactionServiceImpl{
		engine: engine,
		logger: logger,
	}
}

// Execute commits a purchase or redemption through the engine. The commit is
// synchronous: the caller gets the final balance in the response, which the
// station terminal prints on the receipt.
func (s *TransactionServiceImpl) Execute(ctx context.Context, req *shared.ExecuteRequest) (*shared.ExecuteResult, error) {
	logger := s.logger
	if req.CorrelationID != "" {
		logger = s.logger.With("correlation_id", req.CorrelationID)
	}

	result, err := s.engine.Execute(ctx, req)
	if err != nil {
		if shared.IsBusinessError(err) {
			logger.Info("Transaction rejected",
				"idempotency_key", req.IdempotencyKey,
				"customer_id", req.CustomerID,
				"reason", err,
			)
		} else {
			logger.Error("Transaction failed",
				"idempotency_key", req.IdempotencyKey,
				"customer_id", req.CustomerID,
				"error", err,
			)
		}
		return nil, err
	}

	logger.Info("Transaction committed",
		"idempotency_key", result.IdempotencyKey,
		"customer_id", req.CustomerID,
		"type", string(result.Type),
		"points_delta", result.PointsDelta,
		"replayed", result.Replayed,
	)
	return result, nil
}
