package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Signaling is read-only over HTTP; the only write path is the WebSocket.
const (
	corsMethods = "GET, OPTIONS"
	corsHeaders = "Content-Type"
)

// OriginFilter rejects browser requests whose origin is not listed and
// answers CORS preflights for those that are. Requests that carry no origin
// at all (curl, native clients) pass through. With an empty list the filter
// is disabled.
func OriginFilter(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	permitted := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		permitted[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := requestOrigin(c.Request)
		if origin != "" {
			if _, ok := permitted[origin]; !ok {
				log.Warn().Str("module", "handlers.middleware").Str("origin", origin).Msg("origin rejected")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Origin not allowed"})
				return
			}
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", corsMethods)
			h.Set("Access-Control-Allow-Headers", corsHeaders)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestOrigin prefers Origin and falls back to the header older
// WebSocket clients send.
func requestOrigin(r *http.Request) string {
	if o := r.Header.Get("Origin"); o != "" {
		return o
	}
	return r.Header.Get("Sec-WebSocket-Origin")
}
