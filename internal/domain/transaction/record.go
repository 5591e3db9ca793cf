package transaction

import (
	"time"

	"github.com/fuelpoints-ledger/internal/domain/shared"
)

// Record is one immutable entry in the transaction ledger. The idempotency
// key doubles as the primary key, so a duplicate submission surfaces as a
// key conflict rather than a second record. The economic parameters in
// effect at commit time are captured so the record stays self-describing
// even after the global settings change.
type Record struct {
	IdempotencyKey string                 `json:"idempotency_key" bson:"_id"`
	CustomerID     string                 `json:"customer_id" bson:"customer_id"`
	StationID      string                 `json:"station_id" bson:"station_id"`
	OperatorID     string                 `json:"operator_id" bson:"operator_id"`
	Type           shared.TransactionType `json:"type" bson:"type"`
	FuelType       string                 `json:"fuel_type" bson:"fuel_type"`
	FuelAmount     int64                  `json:"fuel_amount" bson:"fuel_amount"` // Gross fuel value
	PaidAmount     int64                  `json:"paid_amount" bson:"paid_amount"` // Gross minus redemption discount
	PointsDelta    int64                  `json:"points_delta" bson:"points_delta"`
	PointsRedeemed int64                  `json:"points_redeemed" bson:"points_redeemed"`
	PointValue     int64                  `json:"point_value" bson:"point_value"`
	CreditPercent  float64                `json:"credit_percent" bson:"credit_percent"`
	MinRedeem      int64                  `json:"min_redeem_points" bson:"min_redeem_points"`
	CorrelationID  string                 `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	CreatedAt      time.Time              `json:"created_at" bson:"created_at"`
}

// PointsCredited returns the points distributed by this record (zero for redemptions).
func (r *Record) PointsCredited() int64 {
	if r.PointsDelta > 0 {
		return r.PointsDelta
	}
	return 0
}

// Result converts a stored record back into the caller-visible shape,
// used when a duplicate idempotency key replays the original outcome.
func (r *Record) Result(balance int64, replayed bool) *shared.ExecuteResult {
	return &shared.ExecuteResult{
		IdempotencyKey: r.IdempotencyKey,
		Type:           r.Type,
		PaidAmount:     r.PaidAmount,
		PointsDelta:    r.PointsDelta,
		PointsRedeemed: r.PointsRedeemed,
		Balance:        balance,
		Replayed:       replayed,
		CommittedAt:    r.CreatedAt,
	}
}
