package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/fuelpoints-ledger/internal/domain/shared"
)

// respondEngineError maps the engine's business errors onto HTTP statuses.
// Anything outside the business taxonomy is an internal failure and is
// logged rather than leaked to the caller.
func respondEngineError(c *gin.Context, logger *slog.Logger, err error) {
	var authnErr shared.AuthenticationError
	if errors.As(err, &authnErr) {
		RespondUnauthorized(c, authnErr.Reason)
		return
	}

	var authzErr shared.AuthorizationError
	if errors.As(err, &authzErr) {
		RespondForbidden(c, authzErr.Reason)
		return
	}

	var validationErr shared.ValidationError
	if errors.As(err, &validationErr) {
		RespondBadRequest(c, validationErr.Error())
		return
	}

	var preconditionErr shared.PreconditionError
	if errors.As(err, &preconditionErr) {
		RespondPreconditionFailed(c, preconditionErr.Error())
		return
	}

	var insufficientErr shared.InsufficientPointsError
	if errors.As(err, &insufficientErr) {
		RespondConflict(c, "INSUFFICIENT_POINTS", insufficientErr.Error())
		return
	}

	logger.Error("Unhandled engine error", "error", err)
	RespondInternalError(c)
}
