package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// Abort stops the chain and writes an error envelope.
func Abort(c *gin.Context, status int, code, message, details string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": domain.NewMCPError(code, message, details, GetCorrelationID(c)),
	})
}
