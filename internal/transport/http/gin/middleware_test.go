package httpgin

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware_GeneratesWhenAbsent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddleware_EchoesClientValue(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestLoggingMiddleware_EmitsOneRecordPerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := gin.New()
	r.Use(LoggingMiddleware(logger), RequestIDMiddleware())
	r.GET("/api/lessons", func(c *gin.Context) { c.JSON(http.StatusOK, []string{}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/lessons?q=art", nil))

	// attrs are grouped under "http"; the path value is quoted because the
	// query string contains '='
	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "http.method=GET")
	assert.Contains(t, out, "http.route=/api/lessons")
	assert.Contains(t, out, `http.path="/api/lessons?q=art"`)
	assert.Contains(t, out, "http.status=200")
}

func TestCORS_PreflightAllowsOrderHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(CORS())
	r.POST("/api/orders", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	allowHeaders := strings.ToLower(w.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, allowHeaders, "idempotency-key")
	assert.Contains(t, allowHeaders, "if-none-match")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PUT")

	// expose headers ride on the actual response, not the preflight
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	exposeHeaders := strings.ToLower(w.Header().Get("Access-Control-Expose-Headers"))
	assert.Contains(t, exposeHeaders, "retry-after")
	assert.Contains(t, exposeHeaders, "etag")
}
