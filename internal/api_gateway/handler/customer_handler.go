package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fuelpoints-ledger/internal/api_gateway/service"
	"github.com/fuelpoints-ledger/internal/domain/customer"
	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

// CustomerHandler handles HTTP requests for customer queries
type CustomerHandler struct {
	customerService service.CustomerService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(logger *slog.Logger, customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// GetBalance retrieves a customer's current point balance, returning 404 if
// the customer does not exist
func (h *CustomerHandler) GetBalance(c *gin.Context) {
	customerID := c.Param("id")

	cust, err := h.customerService.GetBalance(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, customer.ErrCustomerNotFound{}) {
			RespondNotFound(c, "Customer not found")
			return
		}
		h.logger.Error("Failed to get customer balance", "customer_id", customerID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, BalanceResponse{
		CustomerID: cust.ID,
		Name:       cust.Name,
		Points:     cust.Points,
		UpdatedAt:  cust.UpdatedAt.Format(time.RFC3339),
	})
}

// GetTransactions retrieves paginated transaction history for a customer
func (h *CustomerHandler) GetTransactions(c *gin.Context) {
	customerID := c.Param("id")

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	records, total, err := h.customerService.GetTransactions(
		c.Request.Context(),
		customerID,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get customer transactions", "customer_id", customerID, "error", err)
		RespondInternalError(c)
		return
	}

	var transactions []TransactionRecordResponse
	for _, rec := range records {
		transactions = append(transactions, mapRecordToResponse(rec))
	}

	RespondWithPaginatedData(c, http.StatusOK, transactions, pagination.Page, pagination.PerPage, int(total))
}

// mapRecordToResponse maps a ledger record to a response DTO
func mapRecordToResponse(rec *transaction.Record) TransactionRecordResponse {
	return TransactionRecordResponse{
		IdempotencyKey: rec.IdempotencyKey,
		CustomerID:     rec.CustomerID,
		StationID:      rec.StationID,
		OperatorID:     rec.OperatorID,
		Type:           string(rec.Type),
		FuelType:       rec.FuelType,
		FuelAmount:     rec.FuelAmount,
		PaidAmount:     rec.PaidAmount,
		PointsDelta:    rec.PointsDelta,
		PointsRedeemed: rec.PointsRedeemed,
		CreatedAt:      rec.CreatedAt.Format(time.RFC3339),
	}
}
