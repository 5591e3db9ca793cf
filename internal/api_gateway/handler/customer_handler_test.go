package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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

	"github.com/fuelpoints-ledger/internal/domain/customer"
	"github.com/fuelpoints-ledger/internal/domain/shared"
	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) GetBalance(ctx context.Context, customerID string) (*customer.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerService) GetTransactions(ctx context.Context, customerID string, page, perPage int) ([]*transaction.Record, int64, error) {
	args := m.Called(ctx, customerID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*transaction.Record), args.Get(1).(int64), args.Error(2)
}

func TestCustomerHandler_GetBalance(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(logger, mockService)

		mockService.On("GetBalance", mock.Anything, "cust-1").Return(&customer.Customer{
			ID:        "cust-1",
			Name:      "Asha Verma",
			Points:    150,
			UpdatedAt: time.Now().UTC(),
		}, nil)

		router := gin.New()
		router.GET("/customers/:id/balance", handler.GetBalance)

		req, _ := http.NewRequest(http.MethodGet, "/customers/cust-1/balance", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response struct {
			Data BalanceResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Equal(t, "cust-1", response.Data.CustomerID)
		assert.Equal(t, "Asha Verma", response.Data.Name)
		assert.Equal(t, int64(150), response.Data.Points)

		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(logger, mockService)

		mockService.On("GetBalance", mock.Anything, "cust-missing").
			Return(nil, customer.ErrCustomerNotFound{CustomerID: "cust-missing"})

		router := gin.New()
		router.GET("/customers/:id/balance", handler.GetBalance)

		req, _ := http.NewRequest(http.MethodGet, "/customers/cust-missing/balance", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(logger, mockService)

		mockService.On("GetBalance", mock.Anything, "cust-1").
			Return(nil, errors.New("mongo timeout"))

		router := gin.New()
		router.GET("/customers/:id/balance", handler.GetBalance)

		req, _ := http.NewRequest(http.MethodGet, "/customers/cust-1/balance", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestCustomerHandler_GetTransactions(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	gin.SetMode(gin.TestMode)

	makeRecords := func(n int) []*transaction.Record {
		records := make([]*transaction.Record, 0, n)
		for i := 0; i < n; i++ {
			records = append(records, &transaction.Record{
				IdempotencyKey: fmt.Sprintf("tx-%d", i),
				CustomerID:     "cust-1",
				StationID:      "st-1",
				OperatorID:     "op-1",
				Type:           shared.TransactionTypeCredit,
				FuelType:       "petrol",
				FuelAmount:     500,
				PaidAmount:     500,
				PointsDelta:    10,
				CreatedAt:      time.Now().UTC(),
			})
		}
		return records
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(logger, mockService)

		mockService.On("GetTransactions", mock.Anything, "cust-1", 2, 5).
			Return(makeRecords(5), int64(12), nil)

		router := gin.New()
		router.GET("/customers/:id/transactions", handler.GetTransactions)

		req, _ := http.NewRequest(http.MethodGet, "/customers/cust-1/transactions?page=2&per_page=5", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response PaginatedResponse[TransactionRecordResponse]
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		assert.Len(t, response.Data, 5)
		require.NotNil(t, response.Meta)
		assert.Equal(t, 2, response.Meta.Page)
		assert.Equal(t, 5, response.Meta.PerPage)
		assert.Equal(t, 12, response.Meta.TotalItems)
		assert.Equal(t, 3, response.Meta.TotalPages)

		mockService.AssertExpectations(t)
	})

	t.Run("InvalidPagination", func(t *testing.T) {
		mockService := new(MockCustomerService)
		handler := NewCustomerHandler(logger, mockService)

		router := gin.New()
		router.GET("/customers/:id/transactions", handler.GetTransactions)

		req, _ := http.NewRequest(http.MethodGet, "/customers/cust-1/transactions?page=0", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetTransactions")
	})
}
