package handler

import "encoding/json"

// CreateTransactionRequest represents a request to record a purchase or redemption
type CreateTransactionRequest struct {
	CustomerID     string `json:"customer_id" binding:"required"`
	StationID      string `json:"station_id" binding:"required"`
	FuelType       string `json:"fuel_type" binding:"required"`
	Amount         int64  `json:"amount" binding:"required,gt=0"`
	Redeem         bool   `json:"redeem"`
	PointsToRedeem int64  `json:"points_to_redeem" binding:"min=0"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// TransactionResultResponse represents a committed transaction outcome
type TransactionResultResponse struct {
	IdempotencyKey string `json:"idempotency_key"`
	Type           string `json:"type"`
	PaidAmount     int64  `json:"paid_amount"`
	PointsDelta    int64  `json:"points_delta"`
	PointsRedeemed int64  `json:"points_redeemed"`
	Balance        int64  `json:"balance"`
	Replayed       bool   `json:"replayed"`
	CommittedAt    string `json:"committed_at"`
}

// TransactionRecordResponse represents one ledger record in API responses
type TransactionRecordResponse struct {
	IdempotencyKey string `json:"idempotency_key"`
	CustomerID     string `json:"customer_id"`
	StationID      string `json:"station_id"`
	OperatorID     string `json:"operator_id"`
	Type           string `json:"type"`
	FuelType       string `json:"fuel_type"`
	FuelAmount     int64  `json:"fuel_amount"`
	PaidAmount     int64  `json:"paid_amount"`
	PointsDelta    int64  `json:"points_delta"`
	PointsRedeemed int64  `json:"points_redeemed"`
	CreatedAt      string `json:"created_at"`
}

// BalanceResponse represents a customer's point balance in API responses
type BalanceResponse struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name,omitempty"`
	Points     int64  `json:"points"`
	UpdatedAt  string `json:"updated_at"`
}

// StationTransactionsQuery represents the filter parameters for station
// ledger queries. Dates are inclusive business-day bounds.
type StationTransactionsQuery struct {
	Start      string `form:"start"`
	End        string `form:"end"`
	FuelType   string `form:"fuel_type"`
	OperatorID string `form:"operator_id"`
}

// StationStatsQuery represents the date range for rollup queries
type StationStatsQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// AuditQuery represents the filter parameters for audit trail queries.
// Empty fields leave the corresponding column unconstrained.
type AuditQuery struct {
	ActorID    string `form:"actor_id"`
	CustomerID string `form:"customer_id"`
	StationID  string `form:"station_id"`
	Limit      int    `form:"limit,default=50" binding:"min=1,max=500"`
}

// AuditEntryResponse represents one audit trail entry in API responses
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actor_id"`
	CustomerID string          `json:"customer_id,omitempty"`
	StationID  string          `json:"station_id,omitempty"`
	ChangeType string          `json:"change_type"`
	Details    json.RawMessage `json:"details"`
	CreatedAt  string          `json:"created_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
