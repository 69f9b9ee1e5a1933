package main

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// setupStaticFiles serves the frontend from dir. Unknown non-API paths fall
// back to index.html so client-side routes resolve.
func setupStaticFiles(router *gin.Engine, dir string, logger *zap.Logger) {
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		logger.Warn("frontend assets not found, serving API only", zap.String("dir", dir))
		index = ""
	} else {
		logger.Info("serving frontend assets", zap.String("dir", dir))
	}

	router.NoRoute(func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		if strings.HasPrefix(urlPath, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		if index == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		cleanPath := path.Clean(urlPath)
		if cleanPath != "/" {
			file := filepath.Join(dir, filepath.FromSlash(cleanPath[1:]))
			if stat, err := os.Stat(file); err == nil && !stat.IsDir() {
				c.File(file)
				return
			}
		}

		c.File(index)
	})
}
