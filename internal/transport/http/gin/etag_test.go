package httpgin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONWithCache_SetsWeakETagAndCacheControl(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, gin.H{"topic": "Art"}, "public, max-age=30", true)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=30", w.Header().Get("Cache-Control"))
	assert.True(t, strings.HasPrefix(w.Header().Get("ETag"), `W/"`))
	assert.JSONEq(t, `{"topic":"Art"}`, w.Body.String())
}

func TestWriteJSONWithCache_RevalidationReturns304(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, gin.H{"topic": "Art"}, "", true)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("If-None-Match", tag)
	r.ServeHTTP(w2, req)

	assert.Equal(t, http.StatusNotModified, w2.Code)
	assert.Empty(t, w2.Body.String())
}
