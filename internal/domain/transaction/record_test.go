package transaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fuelpoints-ledger/internal/domain/shared"
)

func TestRecord_PointsCredited(t *testing.T) {
	tests := []struct {
		name     string
		delta    int64
		expected int64
	}{
		{"CreditCountsAsDistribution", 10, 10},
		{"RedemptionDoesNot", -100, 0},
		{"ZeroDelta", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Record{PointsDelta: tt.delta}
			assert.Equal(t, tt.expected, rec.PointsCredited())
		})
	}
}

func TestRecord_Result(t *testing.T) {
	committedAt := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	rec := &Record{
		IdempotencyKey: "tx-1",
		CustomerID:     "cust-1",
		StationID:      "st-1",
		Type:           shared.TransactionTypeRedeem,
		FuelAmount:     500,
		PaidAmount:     400,
		PointsDelta:    -100,
		PointsRedeemed: 100,
		CreatedAt:      committedAt,
	}

	result := rec.Result(50, true)

	assert.Equal(t, "tx-1", result.IdempotencyKey)
	assert.Equal(t, shared.TransactionTypeRedeem, result.Type)
	assert.Equal(t, int64(400), result.PaidAmount)
	assert.Equal(t, int64(-100), result.PointsDelta)
	assert.Equal(t, int64(100), result.PointsRedeemed)
	assert.Equal(t, int64(50), result.Balance)
	assert.True(t, result.Replayed)
	assert.Equal(t, committedAt, result.CommittedAt)
}
