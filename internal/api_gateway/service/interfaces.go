package service

import (
	"context"

	"github.com/fuelpoints-ledger/internal/domain/audit"
	"github.com/fuelpoints-ledger/internal/domain/customer"
	"github.com/fuelpoints-ledger/internal/domain/shared"
	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

// TransactionService defines the interface for transaction operations
type TransactionService interface {
	// Execute commits a purchase or redemption atomically. Re-submission
	// with the same idempotency key replays the original result.
	Execute(ctx context.Context, req *shared.ExecuteRequest) (*shared.ExecuteResult, error)
}

// CustomerService defines the interface for customer-facing queries
type CustomerService interface {
	// GetBalance retrieves a customer with their current point balance
	// Returns ErrCustomerNotFound if the customer doesn't exist
	GetBalance(ctx context.Context, customerID string) (*customer.Customer, error)

	// GetTransactions retrieves a paginated list of a customer's ledger records
	// Returns records, total count, and any error
	GetTransactions(ctx context.Context, customerID string, page, perPage int) ([]*transaction.Record, int64, error)
}

// StationStats is the aggregated view over a station's daily rollups for a
// date range, with operator ids resolved to display names where known.
type StationStats struct {
	StationID              string                         `json:"station_id"`
	Start                  string                         `json:"start"`
	End                    string                         `json:"end"`
	Days                   int                            `json:"days"`
	TotalFuelAmount        int64                          `json:"total_fuel_amount"`
	TotalPaidAmount        int64                          `json:"total_paid_amount"`
	TotalPointsDistributed int64                          `json:"total_points_distributed"`
	TotalPointsRedeemed    int64                          `json:"total_points_redeemed"`
	TransactionCount       int64                          `json:"transaction_count"`
	Operators              map[string]OperatorStatsResult `json:"operators"`
}

// OperatorStatsResult is one operator's share of the range totals
type OperatorStatsResult struct {
	Name           string `json:"name,omitempty"`
	FuelAmount     int64  `json:"fuel_amount"`
	PaidAmount     int64  `json:"paid_amount"`
	PointsCredited int64  `json:"points_credited"`
	PointsRedeemed int64  `json:"points_redeemed"`
	TxCount        int64  `json:"tx_count"`
}

// AuditService defines the interface for audit trail queries
type AuditService interface {
	// ListRecent retrieves the newest audit entries matching the filter,
	// newest first
	ListRecent(ctx context.Context, filter audit.Filter, limit int) ([]*audit.Entry, error)
}

// AnalyticsService defines the interface for station-facing queries
type AnalyticsService interface {
	// GetStationTransactions retrieves a filtered, paginated slice of a
	// station's ledger records
	GetStationTransactions(ctx context.Context, stationID string, filter transaction.Filter, page, perPage int) ([]*transaction.Record, int64, error)

	// GetStationStats sums a station's daily rollups over [start, end]
	// (both as "2006-01-02" dates) and hydrates operator display names
	GetStationStats(ctx context.Context, stationID, start, end string) (*StationStats, error)
}
