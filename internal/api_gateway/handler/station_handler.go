package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fuelpoints-ledger/internal/api_gateway/service"
	"github.com/fuelpoints-ledger/internal/domain/stats"
	"github.com/fuelpoints-ledger/internal/domain/transaction"
)

// StationHandler handles HTTP requests for station-facing queries
type StationHandler struct {
	analyticsService service.AnalyticsService
	logger           *slog.Logger
}

// NewStationHandler creates a new station handler
func NewStationHandler(logger *slog.Logger, analyticsService service.AnalyticsService) *StationHandler {
	return &StationHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetTransactions retrieves a station's ledger records, optionally filtered
// by date range, fuel type, and operator
func (h *StationHandler) GetTransactions(c *gin.Context) {
	stationID := c.Param("id")

	var query StationTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	filter := transaction.Filter{
		FuelType:   query.FuelType,
		OperatorID: query.OperatorID,
	}

	if query.Start != "" {
		start, err := time.Parse(stats.DateLayout, query.Start)
		if err != nil {
			RespondBadRequest(c, "Invalid start date, expected "+stats.DateLayout)
			return
		}
		filter.Start = start
	}
	if query.End != "" {
		end, err := time.Parse(stats.DateLayout, query.End)
		if err != nil {
			RespondBadRequest(c, "Invalid end date, expected "+stats.DateLayout)
			return
		}
		// End is an inclusive calendar-day bound
		filter.End = end.Add(24*time.Hour - time.Nanosecond)
	}

	records, total, err := h.analyticsService.GetStationTransactions(
		c.Request.Context(),
		stationID,
		filter,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get station transactions", "station_id", stationID, "error", err)
		RespondInternalError(c)
		return
	}

	var transactions []TransactionRecordResponse
	for _, rec := range records {
		transactions = append(transactions, mapRecordToResponse(rec))
	}

	RespondWithPaginatedData(c, http.StatusOK, transactions, pagination.Page, pagination.PerPage, int(total))
}

// GetStats retrieves a station's aggregated totals for a date range
func (h *StationHandler) GetStats(c *gin.Context) {
	stationID := c.Param("id")

	var query StationStatsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "start and end dates are required")
		return
	}

	for _, date := range []string{query.Start, query.End} {
		if _, err := time.Parse(stats.DateLayout, date); err != nil {
			RespondBadRequest(c, "Invalid date, expected "+stats.DateLayout)
			return
		}
	}
	if query.End < query.Start {
		RespondBadRequest(c, "end date precedes start date")
		return
	}

	summary, err := h.analyticsService.GetStationStats(c.Request.Context(), stationID, query.Start, query.End)
	if err != nil {
		h.logger.Error("Failed to get station stats", "station_id", stationID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, summary)
}
