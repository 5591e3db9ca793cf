package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fuelpoints-ledger/internal/audit_processor/service"
	"github.com/fuelpoints-ledger/internal/domain/shared"
	"github.com/fuelpoints-ledger/internal/platform/messaging/producers"
)

// TransactionEventHandler handles committed transaction events from Kafka
type TransactionEventHandler struct {
	auditService service.AuditService
	producer     producers.DeadLetterPublisher
	logger       *slog.Logger
}

// NewTransactionEventHandler creates a new handler
func NewTransactionEventHandler(
	logger *slog.Logger,
	auditService service.AuditService,
	producer producers.DeadLetterPublisher,
) *TransactionEventHandler {
	return &TransactionEventHandler{
		auditService: auditService,
		producer:     producer,
		logger:       logger,
	}
}

// HandleMessage processes Kafka messages
func (h *TransactionEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.TransactionEvent
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal transaction event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received transaction event for audit",
		"idempotency_key", event.IdempotencyKey,
		"customer_id", event.CustomerID,
		"type", event.Type,
		"points_delta", event.PointsDelta,
	)

	if err := h.auditService.RecordTransaction(ctx, &event); err != nil {
		logger.Error("Failed to record audit entry",
			"idempotency_key", event.IdempotencyKey,
			"customer_id", event.CustomerID,
			"error", err,
		)
		return fmt.Errorf("recording audit entry for %s failed: %w", event.IdempotencyKey, err)
	}

	logger.Info("Successfully recorded audit entry", "idempotency_key", event.IdempotencyKey)
	return nil // Success, commit offset
}
