package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// CORS lets browser frontends call the read-only API. allowedOrigins is
// consulted on every request so a configuration refresh takes effect
// without rebuilding the handler. An empty list, or "*", allows every origin.
func CORS(allowedOrigins func() []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			origins := allowedOrigins()
			return len(origins) == 0 || slices.Contains(origins, "*") || slices.Contains(origins, origin)
		},
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"If-None-Match",
			"Origin",
		},
		ExposedHeaders: []string{
			"Content-Length",
			"ETag",
		},
		MaxAge: 600,
	})
	return c.Handler
}
