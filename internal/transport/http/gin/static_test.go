package httpgin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newImageRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	r := gin.New()
	r.GET("/images/lessons/*filepath", handleLessonImage(dir))

	return r, dir
}

func TestLessonImage_ServesExistingFile(t *testing.T) {
	r, dir := newImageRouter(t)

	// minimal PNG header is enough for the handler; type comes from the
	// extension, not the bytes
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "maths.png"), png, 0o644))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/images/lessons/maths.png", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
	assert.Equal(t, png, w.Body.Bytes())
}

func TestLessonImage_MissingFileReturnsSuggestions(t *testing.T) {
	r, dir := newImageRouter(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "physics.jpg"), []byte("x"), 0o644))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/images/lessons/missing.png", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp ImageNotFoundResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "image not found", resp.Error)
	assert.Equal(t, "/images/lessons/missing.png", resp.RequestedPath)
	assert.Contains(t, resp.Suggestions, "physics.jpg")
}

func TestLessonImage_TraversalCannotEscapeDir(t *testing.T) {
	r, dir := newImageRouter(t)

	// file OUTSIDE the image dir
	outside := filepath.Join(filepath.Dir(dir), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("secret"), 0o644))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/images/lessons/../secret.txt", nil)
	r.ServeHTTP(w, req)

	assert.NotEqual(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestLessonImage_DirectoryIsNotServed(t *testing.T) {
	r, dir := newImageRouter(t)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "thumbs"), 0o755))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/images/lessons/thumbs", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
