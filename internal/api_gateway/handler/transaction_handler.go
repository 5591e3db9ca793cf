package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fuelpoints-ledger/internal/api_gateway/middleware"
	"github.com/fuelpoints-ledger/internal/api_gateway/service"
	"github.com/fuelpoints-ledger/internal/domain/shared"
)

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Create records a purchase or redemption. The commit is synchronous and
// idempotent: repeating a request with the same idempotency key returns the
// original outcome with a 200 instead of a 201.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}

	executeRequest := &shared.ExecuteRequest{
		IdempotencyKey: req.IdempotencyKey,
		CustomerID:     req.CustomerID,
		StationID:      req.StationID,
		OperatorID:     middleware.GetOperatorID(c),
		FuelType:       req.FuelType,
		Amount:         req.Amount,
		Redeem:         req.Redeem,
		PointsToRedeem: req.PointsToRedeem,
		CorrelationID:  middleware.GetCorrelationID(c),
		Timestamp:      time.Now(),
	}

	result, err := h.transactionService.Execute(c.Request.Context(), executeRequest)
	if err != nil {
		respondEngineError(c, h.logger, err)
		return
	}

	response := mapResultToResponse(result)
	if result.Replayed {
		RespondOK(c, response)
		return
	}
	RespondCreated(c, response)
}

// mapResultToResponse maps an engine result to a response DTO
func mapResultToResponse(result *shared.ExecuteResult) TransactionResultResponse {
	return TransactionResultResponse{
		IdempotencyKey: result.IdempotencyKey,
		Type:           string(result.Type),
		PaidAmount:     result.PaidAmount,
		PointsDelta:    result.PointsDelta,
		PointsRedeemed: result.PointsRedeemed,
		Balance:        result.Balance,
		Replayed:       result.Replayed,
		CommittedAt:    result.CommittedAt.Format(time.RFC3339),
	}
}
