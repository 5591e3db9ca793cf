package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// OperatorIDHeader carries the identity of the station operator (or
	// back-office user) making the request. The gateway trusts the value:
	// authenticating it is the job of the fronting proxy.
	OperatorIDHeader = "X-Operator-ID"

	// OperatorIDKey is the key used to store the operator ID in the context
	OperatorIDKey = "operator_id"
)

// OperatorIdentity extracts the operator ID from the request headers and
// stores it in the context for downstream handlers.
func OperatorIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID := strings.TrimSpace(c.GetHeader(OperatorIDHeader))
		if operatorID != "" {
			c.Set(OperatorIDKey, operatorID)
		}

		c.Next()
	}
}

// RequireOperator rejects requests that did not present an operator identity.
// Mounted on routes that record or mutate state.
func RequireOperator() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetOperatorID(c) == "" {
			response := gin.H{
				"error": gin.H{
					"code":    "UNAUTHENTICATED",
					"message": "Missing " + OperatorIDHeader + " header",
				},
			}
			if correlationID := GetCorrelationID(c); correlationID != "" {
				response["correlation_id"] = correlationID
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response)
			return
		}

		c.Next()
	}
}

// GetOperatorID retrieves the operator ID from the gin context if present
func GetOperatorID(c *gin.Context) string {
	if id, exists := c.Get(OperatorIDKey); exists {
		if operatorID, ok := id.(string); ok {
			return operatorID
		}
	}
	return ""
}
