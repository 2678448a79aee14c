package app

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"stationgroups.onebusaway.org/internal/metrics"
	"stationgroups.onebusaway.org/internal/models"
	"stationgroups.onebusaway.org/internal/search"
)

// maxSearchLimit caps the limit a client may request.
const maxSearchLimit = 100

// HealthStatus is the body of /v1/healthcheck.
//
// Ready is true once an artifact is being served, either built during this
// process lifetime or loaded from the persisted output file.
type HealthStatus struct {
	Status      string     `json:"status"`
	Environment string     `json:"environment"`
	Version     string     `json:"version"`
	Sources     int        `json:"sources"`
	Groups      int        `json:"groups"`
	Stations    int        `json:"stations"`
	BuiltAt     *time.Time `json:"built_at,omitempty"`
	Ready       bool       `json:"ready"`
}

// SearchResponse is the body of /v1/search. Suggestion is only set when
// nothing matched and a group name is within a few edits of the query.
type SearchResponse struct {
	Query      string                `json:"query"`
	Results    []models.StationGroup `json:"results"`
	Suggestion string                `json:"suggestion,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// healthcheckHandler responds 200 once groups are being served and 503 before.
func (app *Application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	cfg := app.ConfigService.Config
	status := HealthStatus{
		Status:      "available",
		Environment: cfg.Env,
		Version:     app.Version,
		Sources:     len(cfg.GetSources()),
	}

	if artifact, ok := app.Store.Get(); ok {
		builtAt := artifact.BuiltAt
		status.Groups = len(artifact.Groups)
		status.Stations = artifact.StationCount
		status.BuiltAt = &builtAt
		status.Ready = true
	}

	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// groupsHandler serves the whole current artifact. The run ID doubles as
// the ETag, so map clients can poll cheaply with If-None-Match.
func (app *Application) groupsHandler(w http.ResponseWriter, r *http.Request) {
	artifact, ok := app.Store.Get()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "station groups are not built yet")
		return
	}

	etag := `"` + artifact.RunID + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=60")
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

// searchHandler answers typeahead queries: GET /v1/search?q=<text>&limit=<n>.
func (app *Application) searchHandler(w http.ResponseWriter, r *http.Request) {
	artifact, ok := app.Store.Get()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "station groups are not built yet")
		return
	}

	query := r.URL.Query().Get("q")
	limit, err := app.searchLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		metrics.SearchRequests.WithLabelValues("empty").Inc()
		writeJSON(w, http.StatusOK, SearchResponse{Query: query, Results: []models.StationGroup{}})
		return
	}

	key := fmt.Sprintf("%s|%d|%s", artifact.RunID, limit, normalized)
	if cached, found := app.SearchCache.Get(key); found {
		metrics.SearchRequests.WithLabelValues("cached").Inc()
		resp := cached.(SearchResponse)
		resp.Query = query
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp := SearchResponse{
		Query:   query,
		Results: search.Search(artifact.Groups, query, limit),
	}
	if len(resp.Results) == 0 {
		metrics.SearchRequests.WithLabelValues("miss").Inc()
		resp.Suggestion = search.Suggest(artifact.Groups, query, search.DefaultSuggestDistance)
	} else {
		metrics.SearchRequests.WithLabelValues("hit").Inc()
	}

	app.SearchCache.Set(key, resp, cache.DefaultExpiration)
	writeJSON(w, http.StatusOK, resp)
}

// searchLimit parses the limit parameter, falling back to the configured
// default and capping at maxSearchLimit.
func (app *Application) searchLimit(raw string) (int, error) {
	if raw == "" {
		if l := app.ConfigService.Config.SearchLimit(); l > 0 {
			return min(l, maxSearchLimit), nil
		}
		return search.DefaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	return min(limit, maxSearchLimit), nil
}
