package httpgin

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const maxImageSuggestions = 10

// handleLessonImage serves files from the lesson image directory. A miss
// answers with a JSON body naming the requested path plus a handful of
// files that do exist, which the storefront uses for its broken-image
// fallback.
func handleLessonImage(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rel := c.Param("filepath")

		// Root the path before cleaning so ".." segments cannot climb out
		// of the image directory.
		full := filepath.Join(dir, filepath.Clean("/"+rel))

		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			c.JSON(http.StatusNotFound, ImageNotFoundResponse{
				Error:         "image not found",
				RequestedPath: c.Request.URL.Path,
				Suggestions:   listImageSuggestions(dir),
			})
			return
		}

		c.Header("Cache-Control", "public, max-age=86400")
		// Content-Type is derived from the file extension by ServeFile.
		c.File(full)
	}
}

func listImageSuggestions(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}

	out := make([]string, 0, maxImageSuggestions)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		out = append(out, e.Name())
		if len(out) == maxImageSuggestions {
			break
		}
	}

	return out
}
