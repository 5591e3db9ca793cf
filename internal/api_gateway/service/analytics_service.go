package service

import (
	"context"
	"log/slog"

	"github.com/fuelpoints-ledger/internal/domain/customer"
	"github.com/fuelpoints-ledger/internal/domain/stats"
	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

// AnalyticsServiceImpl implements the AnalyticsService interface
type AnalyticsServiceImpl struct {
	transactionRepo transaction.Repository
	statsRepo       stats.Repository
	customerRepo    customer.Repository
	logger          *slog.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	logger *slog.Logger,
	transactionRepo transaction.Repository,
	statsRepo stats.Repository,
	customerRepo customer.Repository,
) AnalyticsService {
	return &AnalyticsServiceImpl{
		transactionRepo: transactionRepo,
		statsRepo:       statsRepo,
		customerRepo:    customerRepo,
		logger:          logger,
	}
}

// GetStationTransactions retrieves a filtered, paginated slice of a
// station's ledger records. Returns records, total count, and any error
func (s *AnalyticsServiceImpl) GetStationTransactions(ctx context.Context, stationID string, filter transaction.Filter, page, perPage int) ([]*transaction.Record, int64, error) {
	offset := (page - 1) * perPage

	records, err := s.transactionRepo.ListByStation(ctx, stationID, filter, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transactionRepo.CountByStation(ctx, stationID, filter)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// GetStationStats sums the station's daily rollups over [start, end]. The
// summation happens on demand so the stored documents stay one-per-day;
// operator ids are hydrated to display names as a courtesy to dashboards.
func (s *AnalyticsServiceImpl) GetStationStats(ctx context.Context, stationID, start, end string) (*StationStats, error) {
	days, err := s.statsRepo.GetRange(ctx, stationID, start, end)
	if err != nil {
		return nil, err
	}

	result := &StationStats{
		StationID: stationID,
		Start:     start,
		End:       end,
		Days:      len(days),
		Operators: make(map[string]OperatorStatsResult),
	}

	for _, day := range days {
		result.TotalFuelAmount += day.TotalFuelAmount
		result.TotalPaidAmount += day.TotalPaidAmount
		result.TotalPointsDistributed += day.TotalPointsDistributed
		result.TotalPointsRedeemed += day.TotalPointsRedeemed
		result.TransactionCount += day.TransactionCount

		for operatorID, op := range day.Operators {
			agg := result.Operators[operatorID]
			agg.FuelAmount += op.FuelAmount
			agg.PaidAmount += op.PaidAmount
			agg.PointsCredited += op.PointsCredited
			agg.PointsRedeemed += op.PointsRedeemed
			agg.TxCount += op.TxCount
			result.Operators[operatorID] = agg
		}
	}

	if len(result.Operators) > 0 {
		ids := make([]string, 0, len(result.Operators))
		for operatorID := range result.Operators {
			ids = append(ids, operatorID)
		}

		names, err := s.customerRepo.GetNames(ctx, ids)
		if err != nil {
			// Hydration is cosmetic; the totals are still correct without it.
			s.logger.Warn("Failed to hydrate operator names",
				"station_id", stationID,
				"error", err,
			)
			return result, nil
		}

		for operatorID, agg := range result.Operators {
			agg.Name = names[operatorID]
			result.Operators[operatorID] = agg
		}
	}

	return result, nil
}
