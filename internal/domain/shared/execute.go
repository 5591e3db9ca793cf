package shared

import "time"

// TransactionType defines the two kinds of point movements
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "CREDIT"
	TransactionTypeRedeem TransactionType = "REDEEM"
)

// ExecuteRequest describes one logical purchase or redemption. The
// idempotency key is caller-supplied and makes the request safe to retry.
type ExecuteRequest struct {
	IdempotencyKey string    `json:"idempotency_key"`
	CustomerID     string    `json:"customer_id"`
	StationID      string    `json:"station_id"`
	OperatorID     string    `json:"operator_id"`
	FuelType       string    `json:"fuel_type"`
	Amount         int64     `json:"amount"` // Gross fuel value in whole currency units
	Redeem         bool      `json:"redeem"`
	PointsToRedeem int64     `json:"points_to_redeem,omitempty"`
	CorrelationID  string    `json:"correlation_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"` // Receipt time at the gateway; the engine stamps the record with it
}

// ExecuteResult is the caller-visible outcome of a committed (or replayed)
// transaction.
type ExecuteResult struct {
	IdempotencyKey string          `json:"idempotency_key"`
	Type           TransactionType `json:"type"`
	PaidAmount     int64           `json:"paid_amount"`
	PointsDelta    int64           `json:"points_delta"`
	PointsRedeemed int64           `json:"points_redeemed"`
	Balance        int64           `json:"balance"`
	Replayed       bool            `json:"replayed"`
	CommittedAt    time.Time       `json:"committed_at"`
}

// TransactionEvent is the operation metadata published to the event stream
// after a successful commit, consumed by the audit processor.
type TransactionEvent struct {
	IdempotencyKey string          `json:"idempotency_key"`
	Type           TransactionType `json:"type"`
	ActorID        string          `json:"actor_id"` // Operator who recorded the transaction
	CustomerID     string          `json:"customer_id"`
	StationID      string          `json:"station_id"`
	FuelType       string          `json:"fuel_type"`
	FuelAmount     int64           `json:"fuel_amount"`
	PaidAmount     int64           `json:"paid_amount"`
	PointsDelta    int64           `json:"points_delta"`
	BalanceBefore  int64           `json:"balance_before"`
	BalanceAfter   int64           `json:"balance_after"`
	CorrelationID  string          `json:"correlation_id,omitempty"`
	CommittedAt    time.Time       `json:"committed_at"`
}
