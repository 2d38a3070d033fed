package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

// SubjectKey is the gin context key holding the authenticated token subject.
const SubjectKey = "subject"

// Claims are the bearer token claims accepted by the API.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles,omitempty"`
}

// JWTAuth validates HS256 bearer tokens signed with the configured secret.
// Requests without a valid token are rejected with 401.
func JWTAuth(cfg domain.AuthConfig, logger *logrus.Logger) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			Abort(c, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "missing authorization header", "")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			Abort(c, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "invalid authorization format", "")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, opts...)
		if err != nil || !token.Valid {
			logger.WithFields(logrus.Fields{
				"correlation_id": GetCorrelationID(c),
				"error":          err,
			}).Debug("Rejected bearer token")
			Abort(c, http.StatusUnauthorized, domain.ErrCodeUnauthorized, "invalid token", "")
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}
