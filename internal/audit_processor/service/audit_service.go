package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fuelpoints-ledger/internal/domain/audit"
	"github.com/fuelpoints-ledger/internal/domain/shared"
)

// AuditServiceImpl appends one audit row per committed transaction. The
// ledger record is the authoritative trail; these rows exist so transaction
// activity shows up next to the administrative audit entries.
type AuditServiceImpl struct {
	auditRepo audit.Repository
	logger    *slog.Logger
}

func NewAuditService(logger *slog.Logger, auditRepo audit.Repository) AuditService {
	return &AuditServiceImpl{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// RecordTransaction appends an audit entry carrying the event's full
// operation metadata as the details payload.
func (s *AuditServiceImpl) RecordTransaction(ctx context.Context, event *shared.TransactionEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	details, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event details: %w", err)
	}

	entry := &audit.Entry{
		ID:         uuid.New(),
		ActorID:    event.ActorID,
		CustomerID: event.CustomerID,
		StationID:  event.StationID,
		ChangeType: audit.ChangeTypeTransaction,
		Details:    details,
		CreatedAt:  event.CommittedAt,
	}

	if err := s.auditRepo.Append(ctx, entry); err != nil {
		logger.Error("Failed to append audit entry",
			"idempotency_key", event.IdempotencyKey,
			"error", err)
		return err
	}

	logger.Info("Audit entry recorded",
		"idempotency_key", event.IdempotencyKey,
		"actor_id", event.ActorID)
	return nil
}
