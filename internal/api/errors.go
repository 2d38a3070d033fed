package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinical-calculator-mcp-server/internal/domain"
	"github.com/clinical-calculator-mcp-server/internal/middleware"
	"github.com/clinical-calculator-mcp-server/internal/service"
	"github.com/clinical-calculator-mcp-server/pkg/formulas"
)

// statusFor maps an error to its HTTP status and envelope code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCalculatorNotFound):
		return http.StatusNotFound, domain.ErrCodeCalculatorNotFound
	case domain.IsValidationError(err), errors.Is(err, formulas.ErrInvalidParam):
		return http.StatusUnprocessableEntity, domain.ErrCodeValidation
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, formulas.ErrUnknownFormula),
		errors.Is(err, service.ErrHistoryDisabled):
		return http.StatusNotFound, domain.ErrCodeNotFound
	case errors.Is(err, service.ErrHistoryUnavailable):
		return http.StatusServiceUnavailable, domain.ErrCodeInternal
	default:
		return http.StatusInternalServerError, domain.ErrCodeInternal
	}
}

// respondError writes err as an error envelope.
func (s *Server) respondError(c *gin.Context, err error) {
	status, code := statusFor(err)
	mcpErr := domain.NewMCPError(code, http.StatusText(status), err.Error(), middleware.GetCorrelationID(c))

	var ve domain.ValidationErrors
	if errors.As(err, &ve) {
		mcpErr.Message = "input validation failed"
		mcpErr.Fields = ve.FieldIDs()
	}
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("correlation_id", mcpErr.RequestID).Error("Request failed")
		mcpErr.Details = ""
	}

	c.AbortWithStatusJSON(status, gin.H{"error": mcpErr})
}

// badRequest reports a malformed request body or query.
func badRequest(c *gin.Context, details string) {
	middleware.Abort(c, http.StatusBadRequest, domain.ErrCodeInvalidInput, "malformed request", details)
}
