package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fuelpoints-ledger/internal/api_gateway/service"
	"github.com/fuelpoints-ledger/internal/domain/audit"
)

// AuditHandler handles HTTP requests for audit trail queries
type AuditHandler struct {
	auditService service.AuditService
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(logger *slog.Logger, auditService service.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List retrieves the most recent audit entries, optionally filtered by
// actor, customer, or station
func (h *AuditHandler) List(c *gin.Context) {
	var query AuditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Error("Invalid audit query parameters", "error", err)
		RespondBadRequest(c, "Invalid audit query parameters")
		return
	}

	entries, err := h.auditService.ListRecent(c.Request.Context(), audit.Filter{
		ActorID:    query.ActorID,
		CustomerID: query.CustomerID,
		StationID:  query.StationID,
	}, query.Limit)
	if err != nil {
		h.logger.Error("Failed to list audit entries", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, mapAuditEntryToResponse(entry))
	}

	RespondOK(c, responses)
}

// mapAuditEntryToResponse maps an audit entry to a response DTO
func mapAuditEntryToResponse(entry *audit.Entry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         entry.ID.String(),
		ActorID:    entry.ActorID,
		CustomerID: entry.CustomerID,
		StationID:  entry.StationID,
		ChangeType: string(entry.ChangeType),
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
	}
}
