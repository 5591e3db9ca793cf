package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fuelpoints-ledger/internal/domain/customer"
	"github.com/fuelpoints-ledger/internal/domain/stats"
	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Insert(ctx context.Context, rec *transaction.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByKey(ctx context.Context, key string) (*transaction.Record, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) ListByStation(ctx context.Context, stationID string, f transaction.Filter, limit, offset int) ([]*transaction.Record, error) {
	args := m.Called(ctx, stationID, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) CountByStation(ctx context.Context, stationID string, f transaction.Filter) (int64, error) {
	args := m.Called(ctx, stationID, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*transaction.Record, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) CountByCustomer(ctx context.Context, customerID string) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) ForEach(ctx context.Context, fn func(rec *transaction.Record) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Get(ctx context.Context, id string) (*stats.DailyStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stats.DailyStats), args.Error(1)
}

func (m *MockStatsRepository) Insert(ctx context.Context, s *stats.DailyStats) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStatsRepository) Increment(ctx context.Context, id, operatorID string, d stats.Delta, operatorExists bool) error {
	args := m.Called(ctx, id, operatorID, d, operatorExists)
	return args.Error(0)
}

func (m *MockStatsRepository) Replace(ctx context.Context, s *stats.DailyStats) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStatsRepository) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStatsRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStatsRepository) GetRange(ctx context.Context, stationID, start, end string) ([]*stats.DailyStats, error) {
	args := m.Called(ctx, stationID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stats.DailyStats), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id string) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ApplyPointDelta(ctx context.Context, id string, delta int64) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockCustomerRepository) GetNames(ctx context.Context, ids []string) (map[string]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func serviceTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAnalyticsService_GetStationStats(t *testing.T) {
	ctx := context.Background()

	twoDays := []*stats.DailyStats{
		{
			ID:                     "2026-03-08_st-1",
			StationID:              "st-1",
			Date:                   "2026-03-08",
			TotalFuelAmount:        1000,
			TotalPaidAmount:        900,
			TotalPointsDistributed: 20,
			TotalPointsRedeemed:    100,
			TransactionCount:       2,
			Operators: map[string]stats.OperatorStats{
				"op-1": {FuelAmount: 1000, PaidAmount: 900, PointsCredited: 20, PointsRedeemed: 100, TxCount: 2},
			},
		},
		{
			ID:                     "2026-03-09_st-1",
			StationID:              "st-1",
			Date:                   "2026-03-09",
			TotalFuelAmount:        500,
			TotalPaidAmount:        500,
			TotalPointsDistributed: 10,
			TransactionCount:       1,
			Operators: map[string]stats.OperatorStats{
				"op-2": {FuelAmount: 500, PaidAmount: 500, PointsCredited: 10, TxCount: 1},
			},
		},
	}

	t.Run("SumsRangeAndHydratesNames", func(t *testing.T) {
		statsRepo := new(MockStatsRepository)
		customerRepo := new(MockCustomerRepository)
		svc := NewAnalyticsService(serviceTestLogger(), new(MockTransactionRepository), statsRepo, customerRepo)

		statsRepo.On("GetRange", mock.Anything, "st-1", "2026-03-08", "2026-03-09").Return(twoDays, nil)
		customerRepo.On("GetNames", mock.Anything, mock.MatchedBy(func(ids []string) bool {
			return len(ids) == 2
		})).Return(map[string]string{"op-1": "Ravi Kumar"}, nil)

		result, err := svc.GetStationStats(ctx, "st-1", "2026-03-08", "2026-03-09")
		require.NoError(t, err)

		assert.Equal(t, 2, result.Days)
		assert.Equal(t, int64(1500), result.TotalFuelAmount)
		assert.Equal(t, int64(1400), result.TotalPaidAmount)
		assert.Equal(t, int64(30), result.TotalPointsDistributed)
		assert.Equal(t, int64(100), result.TotalPointsRedeemed)
		assert.Equal(t, int64(3), result.TransactionCount)

		require.Len(t, result.Operators, 2)
		assert.Equal(t, "Ravi Kumar", result.Operators["op-1"].Name)
		assert.Equal(t, int64(2), result.Operators["op-1"].TxCount)
		assert.Empty(t, result.Operators["op-2"].Name, "unknown operator keeps a bare id")
		assert.Equal(t, int64(10), result.Operators["op-2"].PointsCredited)

		statsRepo.AssertExpectations(t)
		customerRepo.AssertExpectations(t)
	})

	t.Run("EmptyRange", func(t *testing.T) {
		statsRepo := new(MockStatsRepository)
		customerRepo := new(MockCustomerRepository)
		svc := NewAnalyticsService(serviceTestLogger(), new(MockTransactionRepository), statsRepo, customerRepo)

		statsRepo.On("GetRange", mock.Anything, "st-1", "2026-01-01", "2026-01-02").Return([]*stats.DailyStats{}, nil)

		result, err := svc.GetStationStats(ctx, "st-1", "2026-01-01", "2026-01-02")
		require.NoError(t, err)
		assert.Equal(t, 0, result.Days)
		assert.Equal(t, int64(0), result.TransactionCount)
		assert.Empty(t, result.Operators)
		customerRepo.AssertNotCalled(t, "GetNames")
	})

	t.Run("HydrationFailureIsNotFatal", func(t *testing.T) {
		statsRepo := new(MockStatsRepository)
		customerRepo := new(MockCustomerRepository)
		svc := NewAnalyticsService(serviceTestLogger(), new(MockTransactionRepository), statsRepo, customerRepo)

		statsRepo.On("GetRange", mock.Anything, "st-1", "2026-03-08", "2026-03-09").Return(twoDays, nil)
		customerRepo.On("GetNames", mock.Anything, mock.Anything).Return(nil, errors.New("mongo timeout"))

		result, err := svc.GetStationStats(ctx, "st-1", "2026-03-08", "2026-03-09")
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.TransactionCount)
		assert.Empty(t, result.Operators["op-1"].Name)
	})

	t.Run("RangeReadFailure", func(t *testing.T) {
		statsRepo := new(MockStatsRepository)
		svc := NewAnalyticsService(serviceTestLogger(), new(MockTransactionRepository), statsRepo, new(MockCustomerRepository))

		expectedErr := errors.New("mongo timeout")
		statsRepo.On("GetRange", mock.Anything, "st-1", "2026-03-08", "2026-03-09").Return(nil, expectedErr)

		result, err := svc.GetStationStats(ctx, "st-1", "2026-03-08", "2026-03-09")
		assert.Nil(t, result)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestAnalyticsService_GetStationTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("PaginatesWithOffset", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		svc := NewAnalyticsService(serviceTestLogger(), txRepo, new(MockStatsRepository), new(MockCustomerRepository))

		filter := transaction.Filter{FuelType: "petrol"}
		records := []*transaction.Record{
			{IdempotencyKey: "tx-1", StationID: "st-1", FuelType: "petrol", CreatedAt: time.Now().UTC()},
		}

		txRepo.On("ListByStation", mock.Anything, "st-1", filter, 10, 20).Return(records, nil)
		txRepo.On("CountByStation", mock.Anything, "st-1", filter).Return(int64(21), nil)

		got, total, err := svc.GetStationTransactions(ctx, "st-1", filter, 3, 10)
		require.NoError(t, err)
		assert.Equal(t, records, got)
		assert.Equal(t, int64(21), total)
		txRepo.AssertExpectations(t)
	})

	t.Run("ListFailure", func(t *testing.T) {
		txRepo := new(MockTransactionRepository)
		svc := NewAnalyticsService(serviceTestLogger(), txRepo, new(MockStatsRepository), new(MockCustomerRepository))

		expectedErr := errors.New("mongo timeout")
		txRepo.On("ListByStation", mock.Anything, "st-1", transaction.Filter{}, 10, 0).Return(nil, expectedErr)

		got, total, err := svc.GetStationTransactions(ctx, "st-1", transaction.Filter{}, 1, 10)
		assert.Nil(t, got)
		assert.Zero(t, total)
		assert.ErrorIs(t, err, expectedErr)
	})
}
