// Package engine implements the transaction-and-aggregation core: given a
// purchase or redemption request it validates business rules, mutates the
// customer's point balance, appends an immutable ledger record, and updates
// the station's daily rollup, all exactly once per idempotency key even
// under retries or concurrent requests.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/fuelpoints-ledger/internal/domain/customer"
	"github.com/fuelpoints-ledger/internal/domain/settings"
	"github.com/fuelpoints-ledger/internal/domain/shared"
	"github.com/fuelpoints-ledger/internal/domain/station"
	"github.com/fuelpoints-ledger/internal/domain/stats"
	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

// SessionRunner executes a function inside one all-or-nothing storage
// transaction. Repository calls made with the context passed to fn join it.
type SessionRunner interface {
	RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher publishes committed-transaction events to the audit stream
type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

// Config holds the engine's operational parameters
type Config struct {
	CommitAttempts    int           // Bounded retries for transient commit conflicts
	BusinessDayOffset time.Duration // Fixed local offset for business-date bucketing
}

// Engine orchestrates validation, computation, and the atomic three-store
// commit. It keeps no mutable state of its own; all shared state lives in
// the backing stores.
type Engine struct {
	runner       SessionRunner
	stations     station.Repository
	customers    customer.Repository
	transactions transaction.Repository
	dailyStats   stats.Repository
	settings     settings.Repository
	events       EventPublisher // Optional; nil disables publishing
	cfg          Config
	logger       *slog.Logger
}

// NewEngine creates a transaction engine over the given stores. events may
// be nil when no audit stream is configured.
func NewEngine(
	logger *slog.Logger,
	cfg Config,
	runner SessionRunner,
	stations station.Repository,
	customers customer.Repository,
	transactions transaction.Repository,
	dailyStats stats.Repository,
	settingsRepo settings.Repository,
	events EventPublisher,
) *Engine {
	if cfg.CommitAttempts <= 0 {
		cfg.CommitAttempts = 3
	}
	return &Engine{
		runner:       runner,
		stations:     stations,
		customers:    customers,
		transactions: transactions,
		dailyStats:   dailyStats,
		settings:     settingsRepo,
		events:       events,
		cfg:          cfg,
		logger:       logger,
	}
}

// Execute applies one logical purchase or redemption. Re-submission with the
// same idempotency key returns the original result instead of re-executing.
// Business-rule failures are detected before any mutation; transient commit
// conflicts are retried a bounded number of times before surfacing an error.
func (e *Engine) Execute(ctx context.Context, req *shared.ExecuteRequest) (*shared.ExecuteResult, error) {
	logger := e.logger
	if req.CorrelationID != "" {
		logger = e.logger.With("correlation_id", req.CorrelationID)
	}

	if err := validateShape(req); err != nil {
		return nil, err
	}

	// Station membership is checked by the engine itself; role verification
	// happened upstream at the authorization gate.
	st, err := e.stations.GetByID(ctx, req.StationID)
	if err != nil {
		if errors.Is(err, station.ErrStationNotFound{}) {
			return nil, shared.AuthorizationError{
				OperatorID: req.OperatorID,
				StationID:  req.StationID,
				Reason:     "station not found",
			}
		}
		return nil, fmt.Errorf("station lookup failed: %w", err)
	}
	if !st.Active {
		return nil, shared.AuthorizationError{
			OperatorID: req.OperatorID,
			StationID:  req.StationID,
			Reason:     "station is inactive",
		}
	}
	if !st.Authorizes(req.OperatorID) {
		return nil, shared.AuthorizationError{
			OperatorID: req.OperatorID,
			StationID:  req.StationID,
			Reason:     "operator is not authorized for this station",
		}
	}

	// Idempotency pre-check: an already-committed key replays the original
	// outcome, it is not an error.
	prior, err := e.transactions.GetByKey(ctx, req.IdempotencyKey)
	if err != nil && !errors.Is(err, transaction.ErrRecordNotFound{}) {
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if prior != nil {
		return e.replay(ctx, prior, logger)
	}

	var (
		result  *shared.ExecuteResult
		event   *shared.TransactionEvent
		lastErr error
	)
	for attempt := 1; attempt <= e.cfg.CommitAttempts; attempt++ {
		result, event = nil, nil
		err := e.runner.RunTransaction(ctx, func(txCtx context.Context) error {
			res, ev, commitErr := e.commit(txCtx, req)
			result, event = res, ev
			return commitErr
		})
		if err == nil {
			break
		}

		if shared.IsBusinessError(err) {
			return nil, err
		}
		if errors.Is(err, transaction.ErrDuplicateRecord{}) {
			// A concurrent writer raced the idempotency check; their commit
			// won, so return their result unchanged.
			winner, gerr := e.transactions.GetByKey(ctx, req.IdempotencyKey)
			if gerr != nil {
				return nil, fmt.Errorf("failed to load record after duplicate commit: %w", gerr)
			}
			return e.replay(ctx, winner, logger)
		}

		lastErr = err
		result = nil
		logger.Warn("Transient commit conflict, retrying",
			"idempotency_key", req.IdempotencyKey,
			"attempt", attempt,
			"error", err)
	}
	if result == nil {
		return nil, fmt.Errorf("transaction commit failed after %d attempts: %w", e.cfg.CommitAttempts, lastErr)
	}

	logger.Info("Transaction committed",
		"idempotency_key", req.IdempotencyKey,
		"type", string(result.Type),
		"station_id", req.StationID,
		"customer_id", req.CustomerID,
		"points_delta", result.PointsDelta)

	e.publishEvent(ctx, event, logger)

	return result, nil
}

// commit performs the reads, validations, computation, and the three writes
// of one attempt. It runs inside a session transaction; returning an error
// aborts every write.
func (e *Engine) commit(ctx context.Context, req *shared.ExecuteRequest) (*shared.ExecuteResult, *shared.TransactionEvent, error) {
	cfgSnap, err := e.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrNotConfigured) {
			return nil, nil, shared.PreconditionError{Missing: "global settings"}
		}
		return nil, nil, fmt.Errorf("settings read failed: %w", err)
	}

	cust, err := e.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound{}) {
			return nil, nil, shared.PreconditionError{Missing: "customer " + req.CustomerID}
		}
		return nil, nil, fmt.Errorf("customer read failed: %w", err)
	}

	// Pre-read today's rollup before any write; the exists/init branch for
	// the operator's nested entry depends on it.
	now := req.Timestamp.UTC()
	if req.Timestamp.IsZero() {
		now = time.Now().UTC()
	}
	date := stats.BusinessDate(now, e.cfg.BusinessDayOffset)
	statsID := stats.DocumentID(date, req.StationID)
	existing, err := e.dailyStats.Get(ctx, statsID)
	if err != nil {
		return nil, nil, fmt.Errorf("daily stats read failed: %w", err)
	}

	if req.Amount > cfgSnap.MaxFuelAmount {
		return nil, nil, shared.ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("exceeds the maximum of %d", cfgSnap.MaxFuelAmount),
		}
	}
	if len(cfgSnap.FuelTypes) > 0 && !cfgSnap.AllowsFuelType(req.FuelType) {
		return nil, nil, shared.ValidationError{
			Field:  "fuel_type",
			Reason: fmt.Sprintf("%q is not an allowed fuel type", req.FuelType),
		}
	}

	var (
		pointsDelta    int64
		pointsRedeemed int64
		paidAmount     = req.Amount
		txType         = shared.TransactionTypeCredit
	)
	if req.Redeem {
		txType = shared.TransactionTypeRedeem
		if req.PointsToRedeem <= 0 {
			return nil, nil, shared.ValidationError{Field: "points_to_redeem", Reason: "must be greater than 0"}
		}
		if cust.Points < cfgSnap.MinRedeemPoints {
			return nil, nil, shared.ValidationError{
				Field:  "points_to_redeem",
				Reason: fmt.Sprintf("minimum %d points required to redeem", cfgSnap.MinRedeemPoints),
			}
		}
		if cust.Points < req.PointsToRedeem {
			return nil, nil, shared.InsufficientPointsError{Balance: cust.Points, Requested: req.PointsToRedeem}
		}
		discount := req.PointsToRedeem * cfgSnap.PointValue
		if discount > req.Amount {
			return nil, nil, shared.ValidationError{
				Field:  "points_to_redeem",
				Reason: "discount cannot exceed the transaction amount",
			}
		}
		pointsDelta = -req.PointsToRedeem
		pointsRedeemed = req.PointsToRedeem
		paidAmount = req.Amount - discount
	} else {
		valueBack := float64(req.Amount) * cfgSnap.CreditPercent / 100
		pointsDelta = int64(math.Floor(valueBack / float64(cfgSnap.PointValue)))
	}

	rec := &transaction.Record{
		IdempotencyKey: req.IdempotencyKey,
		CustomerID:     req.CustomerID,
		StationID:      req.StationID,
		OperatorID:     req.OperatorID,
		Type:           txType,
		FuelType:       req.FuelType,
		FuelAmount:     req.Amount,
		PaidAmount:     paidAmount,
		PointsDelta:    pointsDelta,
		PointsRedeemed: pointsRedeemed,
		PointValue:     cfgSnap.PointValue,
		CreditPercent:  cfgSnap.CreditPercent,
		MinRedeem:      cfgSnap.MinRedeemPoints,
		CorrelationID:  req.CorrelationID,
		CreatedAt:      now,
	}

	if err := e.customers.ApplyPointDelta(ctx, req.CustomerID, pointsDelta); err != nil {
		return nil, nil, err
	}
	if err := e.transactions.Insert(ctx, rec); err != nil {
		return nil, nil, err // ErrDuplicateRecord aborts the whole commit
	}

	d := stats.DeltaFromRecord(rec)
	if existing == nil {
		if err := e.dailyStats.Insert(ctx, stats.New(date, req.StationID, req.OperatorID, d)); err != nil {
			return nil, nil, err
		}
	} else {
		if err := e.dailyStats.Increment(ctx, statsID, req.OperatorID, d, existing.HasOperator(req.OperatorID)); err != nil {
			return nil, nil, err
		}
	}

	result := rec.Result(cust.Points+pointsDelta, false)
	event := &shared.TransactionEvent{
		IdempotencyKey: rec.IdempotencyKey,
		Type:           rec.Type,
		ActorID:        rec.OperatorID,
		CustomerID:     rec.CustomerID,
		StationID:      rec.StationID,
		FuelType:       rec.FuelType,
		FuelAmount:     rec.FuelAmount,
		PaidAmount:     rec.PaidAmount,
		PointsDelta:    rec.PointsDelta,
		BalanceBefore:  cust.Points,
		BalanceAfter:   cust.Points + pointsDelta,
		CorrelationID:  req.CorrelationID,
		CommittedAt:    now,
	}
	return result, event, nil
}

// replay returns the previously committed outcome for an idempotency key
func (e *Engine) replay(ctx context.Context, rec *transaction.Record, logger *slog.Logger) (*shared.ExecuteResult, error) {
	cust, err := e.customers.GetByID(ctx, rec.CustomerID)
	if err != nil {
		logger.Error("Failed to read balance for replayed result",
			"idempotency_key", rec.IdempotencyKey,
			"customer_id", rec.CustomerID,
			"error", err)
		return nil, fmt.Errorf("balance read failed during replay: %w", err)
	}

	logger.Info("Idempotent replay, returning original result",
		"idempotency_key", rec.IdempotencyKey)
	return rec.Result(cust.Points, true), nil
}

// publishEvent emits the operation metadata to the audit stream. The commit
// already happened; a publish failure is logged, never surfaced.
func (e *Engine) publishEvent(ctx context.Context, event *shared.TransactionEvent, logger *slog.Logger) {
	if e.events == nil || event == nil {
		return
	}
	if err := e.events.Publish(ctx, event.IdempotencyKey, event); err != nil {
		logger.Error("Failed to publish transaction event",
			"idempotency_key", event.IdempotencyKey,
			"error", err)
	}
}

// validateShape rejects requests missing required fields or carrying a
// non-positive amount before any store is touched.
func validateShape(req *shared.ExecuteRequest) error {
	switch {
	case req.IdempotencyKey == "":
		return shared.ValidationError{Field: "idempotency_key", Reason: "is required"}
	case req.CustomerID == "":
		return shared.ValidationError{Field: "customer_id", Reason: "is required"}
	case req.StationID == "":
		return shared.ValidationError{Field: "station_id", Reason: "is required"}
	case req.OperatorID == "":
		return shared.AuthenticationError{Reason: "operator identity is required"}
	case req.FuelType == "":
		return shared.ValidationError{Field: "fuel_type", Reason: "is required"}
	case req.Amount <= 0:
		return shared.ValidationError{Field: "amount", Reason: "must be greater than 0"}
	}
	return nil
}
