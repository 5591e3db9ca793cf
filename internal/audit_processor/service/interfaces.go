package service

import (
	"context"

	"github.com/fuelpoints-ledger/internal/domain/shared"
)

// AuditService turns committed-transaction events into audit log entries.
type AuditService interface {
	RecordTransaction(ctx context.Context, event *shared.TransactionEvent) error
}
