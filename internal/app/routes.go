package app

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"stationgroups.onebusaway.org/internal/middleware"
)

// Routes registers the HTTP endpoints and wraps them in the middleware chain.
//
//   - GET /v1/healthcheck: readiness and artifact summary
//   - GET /v1/groups: the current artifact
//   - GET /v1/search: ranked typeahead over the current groups
//   - GET /metrics: cached Prometheus exposition
//
// ctx stops the background refresh of the metrics cache.
func (app *Application) Routes(ctx context.Context) http.Handler {
	router := httprouter.New()

	router.Handler(http.MethodGet, "/v1/healthcheck", middleware.NoStore(http.HandlerFunc(app.healthcheckHandler)))
	router.HandlerFunc(http.MethodGet, "/v1/groups", app.groupsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/search", app.searchHandler)
	router.Handler(http.MethodGet, "/metrics", middleware.NoStore(middleware.NewCachedPromHandler(ctx, prometheus.DefaultGatherer, 10*time.Second)))

	handler := middleware.SentryMiddleware(router)
	handler = middleware.CORS(app.ConfigService.Config.AllowedOrigins)(handler)
	return middleware.SecurityHeaders(handler)
}
