package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fuelpoints-ledger/internal/domain/shared"
	"github.com/fuelpoints-ledger/internal/platform/messaging/producers"
)

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) RecordTransaction(ctx context.Context, event *shared.TransactionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockDLQPublisher struct {
	mock.Mock
}

func (m *MockDLQPublisher) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	args := m.Called(ctx, key, originalMessageValue, reason)
	return args.Error(0)
}

func (m *MockDLQPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Verify interface implementation
var _ producers.DeadLetterPublisher = (*MockDLQPublisher)(nil)

func handlerTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func eventPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(&shared.TransactionEvent{
		IdempotencyKey: "tx-1",
		Type:           shared.TransactionTypeCredit,
		ActorID:        "op-1",
		CustomerID:     "cust-1",
		StationID:      "st-1",
		FuelType:       "petrol",
		FuelAmount:     500,
		PaidAmount:     500,
		PointsDelta:    10,
		BalanceBefore:  150,
		BalanceAfter:   160,
		CommittedAt:    time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return payload
}

func TestTransactionEventHandler_HandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("RecordsValidEvent", func(t *testing.T) {
		auditService := new(MockAuditService)
		dlq := new(MockDLQPublisher)
		handler := NewTransactionEventHandler(handlerTestLogger(), auditService, dlq)

		auditService.On("RecordTransaction", mock.Anything, mock.MatchedBy(func(e *shared.TransactionEvent) bool {
			return e.IdempotencyKey == "tx-1" && e.PointsDelta == 10
		})).Return(nil)

		err := handler.HandleMessage(ctx, []byte("cust-1"), eventPayload(t))
		assert.NoError(t, err)
		auditService.AssertExpectations(t)
		dlq.AssertNotCalled(t, "PublishToDLQ")
	})

	t.Run("UnparsableMessageGoesToDLQ", func(t *testing.T) {
		auditService := new(MockAuditService)
		dlq := new(MockDLQPublisher)
		handler := NewTransactionEventHandler(handlerTestLogger(), auditService, dlq)

		garbage := []byte("not json")
		dlq.On("PublishToDLQ", mock.Anything, "cust-1", garbage, mock.AnythingOfType("string")).Return(nil)

		err := handler.HandleMessage(ctx, []byte("cust-1"), garbage)
		assert.NoError(t, err, "offset is committed once the message reaches the DLQ")
		dlq.AssertExpectations(t)
		auditService.AssertNotCalled(t, "RecordTransaction")
	})

	t.Run("DLQFailureKeepsMessageForRetry", func(t *testing.T) {
		auditService := new(MockAuditService)
		dlq := new(MockDLQPublisher)
		handler := NewTransactionEventHandler(handlerTestLogger(), auditService, dlq)

		dlq.On("PublishToDLQ", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("kafka unavailable"))

		err := handler.HandleMessage(ctx, []byte("cust-1"), []byte("not json"))
		assert.Error(t, err)
	})

	t.Run("RecordFailureIsRetriable", func(t *testing.T) {
		auditService := new(MockAuditService)
		dlq := new(MockDLQPublisher)
		handler := NewTransactionEventHandler(handlerTestLogger(), auditService, dlq)

		expectedErr := errors.New("postgres down")
		auditService.On("RecordTransaction", mock.Anything, mock.Anything).Return(expectedErr)

		err := handler.HandleMessage(ctx, []byte("cust-1"), eventPayload(t))
		assert.ErrorIs(t, err, expectedErr)
		dlq.AssertNotCalled(t, "PublishToDLQ")
	})
}
