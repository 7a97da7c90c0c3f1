package cache

import (
	"bytes"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Middleware caches successful JSON responses for the listed GET paths.
// Blog content is deliberately never cached; its bodies must be read
// fresh from disk on every request.
func Middleware(maxAge time.Duration, paths ...string) gin.HandlerFunc {
	cacheable := make(map[string]bool, len(paths))
	for _, p := range paths {
		cacheable[p] = true
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || !cacheable[c.Request.URL.Path] {
			c.Next()
			return
		}

		// Query parameters are part of the key so filtered listings do
		// not shadow the unfiltered ones.
		key := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			key += "?" + q
		}

		if cached, found := Read(key, maxAge); found {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBuffer(nil),
		}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK &&
			strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "application/json") {
			if err := Write(key, writer.body.String()); err != nil {
				log.Printf("Error writing cache entry for %s: %v", key, err)
			}
		}
	}
}
