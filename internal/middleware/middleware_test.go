package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinical-calculator-mcp-server/internal/domain"
)

var testSecret = "test-secret-key-for-unit-tests-only"

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString(SubjectKey)})
	})
	return r
}

func do(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping/abc", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.MCPError {
	t.Helper()
	var body struct {
		Error domain.MCPError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func signToken(t *testing.T, claims Claims, key string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestSecurityHeadersAndCorrelationID(t *testing.T) {
	r := newRouter(CorrelationID(), SecurityHeaders())

	rec := do(r, nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Len(t, rec.Header().Get(CorrelationIDHeader), 36)

	rec = do(r, http.Header{CorrelationIDHeader: {"req-42"}})
	assert.Equal(t, "req-42", rec.Header().Get(CorrelationIDHeader))
}

func TestRateLimiter_PerClientBudget(t *testing.T) {
	rl := NewRateLimiter(domain.RateLimitConfig{RequestsPerSecond: 1, Burst: 2, ClientTTL: time.Minute}, quietLogger())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "burst exhausted")
	assert.True(t, rl.Allow("b"), "clients have separate buckets")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"), "one token refilled")

	now = now.Add(2 * time.Minute)
	rl.Allow("c")
	assert.Equal(t, 1, rl.Clients(), "idle clients are swept")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(domain.RateLimitConfig{RequestsPerSecond: 0.5, Burst: 1}, quietLogger())
	r := newRouter(CorrelationID(), RateLimit(rl))

	require.Equal(t, http.StatusOK, do(r, nil).Code)
	rec := do(r, http.Header{CorrelationIDHeader: {"cid-1"}})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	e := decodeError(t, rec)
	assert.Equal(t, domain.ErrCodeRateLimit, e.Code)
	assert.Equal(t, "cid-1", e.RequestID)
}

func TestJWTAuth(t *testing.T) {
	cfg := domain.AuthConfig{Enabled: true, JWTSecret: testSecret, Issuer: "calc-tests"}
	r := newRouter(JWTAuth(cfg, quietLogger()))
	valid := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "clinician-1",
		Issuer:    "calc-tests",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	noExpiry := valid
	noExpiry.ExpiresAt = nil
	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"basic auth", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"wrong key", "Bearer " + signToken(t, valid, "other-key"), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, expired, testSecret), http.StatusUnauthorized},
		{"no expiry", "Bearer " + signToken(t, noExpiry, testSecret), http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + signToken(t, wrongIssuer, testSecret), http.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, valid, testSecret), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Authorization", tt.header)
			}
			rec := do(r, header)
			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, domain.ErrCodeUnauthorized, decodeError(t, rec).Code)
			} else {
				assert.Contains(t, rec.Body.String(), "clinician-1")
			}
		})
	}
}

func TestAuditLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	r := newRouter(CorrelationID(), AuditLogger(logger))

	do(r, http.Header{CorrelationIDHeader: {"audit-1"}})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "audit-1", line["correlation_id"])
	assert.Equal(t, "/ping/:id", line["path"])
	assert.Equal(t, "abc", line["resource_id"])
	assert.Equal(t, float64(200), line["status"])
}

func TestRequestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(RequestTimeout(time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
		c.String(http.StatusGatewayTimeout, c.Request.Context().Err().Error())
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, "context deadline exceeded", rec.Body.String())
}
