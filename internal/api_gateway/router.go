package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fuelpoints-ledger/internal/api_gateway/handler"
	"github.com/fuelpoints-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	transactionHandler *handler.TransactionHandler,
	customerHandler *handler.CustomerHandler,
	stationHandler *handler.StationHandler,
	auditHandler *handler.AuditHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.OperatorIdentity())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Transaction commits require an authenticated operator
		transactions := v1.Group("/transactions")
		transactions.Use(middleware.RequireOperator())
		{
			transactions.POST("", transactionHandler.Create)
		}

		// Customer queries
		customers := v1.Group("/customers")
		{
			customers.GET("/:id/balance", customerHandler.GetBalance)
			customers.GET("/:id/transactions", customerHandler.GetTransactions)
		}

		// Station queries
		stations := v1.Group("/stations")
		{
			stations.GET("/:id/transactions", stationHandler.GetTransactions)
			stations.GET("/:id/stats", stationHandler.GetStats)
		}

		// Audit trail queries require an authenticated operator
		auditGroup := v1.Group("/audit")
		auditGroup.Use(middleware.RequireOperator())
		{
			auditGroup.GET("", auditHandler.List)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
