package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fuelpoints-ledger/internal/api_gateway/service"
	"github.com/fuelpoints-ledger/internal/domain/shared"
	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetStationTransactions(ctx context.Context, stationID string, filter transaction.Filter, page, perPage int) ([]*transaction.Record, int64, error) {
	args := m.Called(ctx, stationID, filter, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*transaction.Record), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnalyticsService) GetStationStats(ctx context.Context, stationID, start, end string) (*service.StationStats, error) {
	args := m.Called(ctx, stationID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StationStats), args.Error(1)
}

func TestStationHandler_GetTransactions(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("FilterPassthrough", func(t *testing.T) {
		mockService := new(MockAnalyticsService)
		handler := NewStationHandler(logger, mockService)

		mockService.On("GetStationTransactions", mock.Anything, "st-1", mock.MatchedBy(func(f transaction.Filter) bool {
			return f.FuelType == "diesel" &&
				f.OperatorID == "op-2" &&
				f.Start.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) &&
				f.End.After(time.Date(2026, 3, 9, 23, 59, 59, 0, time.UTC))
		}), 1, 10).Return([]*transaction.Record{
			{
				IdempotencyKey: "tx-1",
				StationID:      "st-1",
				OperatorID:     "op-2",
				Type:           shared.TransactionTypeCredit,
				FuelType:       "diesel",
				CreatedAt:      time.Now().UTC(),
			},
		}, int64(1), nil)

		router := gin.New()
		router.GET("/stations/:id/transactions", handler.GetTransactions)

		req, _ := http.NewRequest(http.MethodGet,
			"/stations/st-1/transactions?start=2026-03-01&end=2026-03-09&fuel_type=diesel&operator_id=op-2", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response PaginatedResponse[TransactionRecordResponse]
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, "diesel", response.Data[0].FuelType)

		mockService.AssertExpectations(t)
	})

	t.Run("InvalidStartDate", func(t *testing.T) {
		mockService := new(MockAnalyticsService)
		handler := NewStationHandler(logger, mockService)

		router := gin.New()
		router.GET("/stations/:id/transactions", handler.GetTransactions)

		req, _ := http.NewRequest(http.MethodGet, "/stations/st-1/transactions?start=03-01-2026", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetStationTransactions")
	})
}

func TestStationHandler_GetStats(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAnalyticsService)
		handler := NewStationHandler(logger, mockService)

		mockService.On("GetStationStats", mock.Anything, "st-1", "2026-03-01", "2026-03-09").
			Return(&service.StationStats{
				StationID:              "st-1",
				Start:                  "2026-03-01",
				End:                    "2026-03-09",
				Days:                   9,
				TotalFuelAmount:        45000,
				TotalPointsDistributed: 900,
				TransactionCount:       90,
				Operators: map[string]service.OperatorStatsResult{
					"op-1": {Name: "Ravi Kumar", TxCount: 90, PointsCredited: 900},
				},
			}, nil)

		router := gin.New()
		router.GET("/stations/:id/stats", handler.GetStats)

		req, _ := http.NewRequest(http.MethodGet, "/stations/st-1/stats?start=2026-03-01&end=2026-03-09", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response struct {
			Data service.StationStats `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, int64(45000), response.Data.TotalFuelAmount)
		assert.Equal(t, "Ravi Kumar", response.Data.Operators["op-1"].Name)

		mockService.AssertExpectations(t)
	})

	t.Run("MissingRange", func(t *testing.T) {
		mockService := new(MockAnalyticsService)
		handler := NewStationHandler(logger, mockService)

		router := gin.New()
		router.GET("/stations/:id/stats", handler.GetStats)

		req, _ := http.NewRequest(http.MethodGet, "/stations/st-1/stats?start=2026-03-01", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetStationStats")
	})

	t.Run("ReversedRange", func(t *testing.T) {
		mockService := new(MockAnalyticsService)
		handler := NewStationHandler(logger, mockService)

		router := gin.New()
		router.GET("/stations/:id/stats", handler.GetStats)

		req, _ := http.NewRequest(http.MethodGet, "/stations/st-1/stats?start=2026-03-09&end=2026-03-01", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetStationStats")
	})
}
