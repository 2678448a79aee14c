package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"stationgroups.onebusaway.org/internal/metrics"
	"stationgroups.onebusaway.org/internal/models"
)

func TestHealthcheckHandler(t *testing.T) {
	t.Run("not ready before the first build", func(t *testing.T) {
		app := newTestApplication(t, models.StationSource{Name: "rail"})

		rr := httptest.NewRecorder()
		app.healthcheckHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil))

		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusServiceUnavailable)
		}
		var resp HealthStatus
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Ready || resp.Sources != 1 || resp.BuiltAt != nil {
			t.Errorf("unexpected status %+v", resp)
		}
	})

	t.Run("ready after a build", func(t *testing.T) {
		app := newBuiltApplication(t)

		rr := httptest.NewRecorder()
		app.healthcheckHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/healthcheck", nil))

		if rr.Code != http.StatusOK {
			t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
		}

		var resp HealthStatus
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Status != "available" {
			t.Errorf("expected status 'available', got %q", resp.Status)
		}
		if resp.Environment != "testing" {
			t.Errorf("expected environment 'testing', got %q", resp.Environment)
		}
		if resp.Version != "test-version" {
			t.Errorf("expected version 'test-version', got %q", resp.Version)
		}
		if resp.Groups != 2 || resp.Stations != 3 {
			t.Errorf("expected 2 groups of 3 stations, got %d and %d", resp.Groups, resp.Stations)
		}
		if !resp.Ready || resp.BuiltAt == nil {
			t.Errorf("expected ready with a build time, got %+v", resp)
		}
	})
}

func TestGroupsHandler(t *testing.T) {
	t.Run("unavailable before the first build", func(t *testing.T) {
		app := newTestApplication(t)
		rr := httptest.NewRecorder()
		app.groupsHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/groups", nil))
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", rr.Code)
		}
	})

	app := newBuiltApplication(t)
	artifact, _ := app.Store.Get()

	rr := httptest.NewRecorder()
	app.groupsHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/groups", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body models.Artifact
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.RunID != artifact.RunID || len(body.Groups) != 2 {
		t.Errorf("unexpected artifact %+v", body)
	}
	if body.Groups[0].GroupName != "Berlin" || !body.Groups[0].IsGroup || len(body.Groups[0].Stations) != 2 {
		t.Errorf("unexpected first group %+v", body.Groups[0])
	}

	etag := rr.Header().Get("ETag")
	if etag != `"`+artifact.RunID+`"` {
		t.Errorf("expected run ID as ETag, got %q", etag)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/groups", nil)
	req.Header.Set("If-None-Match", etag)
	rr = httptest.NewRecorder()
	app.groupsHandler(rr, req)
	if rr.Code != http.StatusNotModified || rr.Body.Len() != 0 {
		t.Errorf("expected empty 304, got %d with %d bytes", rr.Code, rr.Body.Len())
	}
}

func decodeSearch(t *testing.T, rr *httptest.ResponseRecorder) SearchResponse {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestSearchHandler(t *testing.T) {
	app := newBuiltApplication(t)

	tests := []struct {
		name           string
		url            string
		wantStatus     int
		wantResults    []string
		wantSuggestion string
	}{
		{"prefix", "/v1/search?q=berl", http.StatusOK, []string{"Berlin (2 stations)"}, ""},
		{"member name", "/v1/search?q=ostbahnhof", http.StatusOK, []string{"Berlin (2 stations)"}, ""},
		{"country", "/v1/search?q=de", http.StatusOK, []string{"Berlin (2 stations)", "Leipzig Hbf"}, ""},
		{"limit", "/v1/search?q=de&limit=1", http.StatusOK, []string{"Berlin (2 stations)"}, ""},
		{"empty", "/v1/search?q=%20%20", http.StatusOK, []string{}, ""},
		{"suggestion", "/v1/search?q=berlni", http.StatusOK, []string{}, "Berlin"},
		{"invalid limit", "/v1/search?q=berlin&limit=abc", http.StatusBadRequest, nil, ""},
		{"negative limit", "/v1/search?q=berlin&limit=-3", http.StatusBadRequest, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			app.searchHandler(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if tt.wantStatus != http.StatusOK {
				if rr.Code != tt.wantStatus {
					t.Errorf("expected %d, got %d", tt.wantStatus, rr.Code)
				}
				return
			}

			resp := decodeSearch(t, rr)
			if resp.Results == nil {
				t.Fatal("results must be an array, not null")
			}
			if len(resp.Results) != len(tt.wantResults) {
				t.Fatalf("expected %d results, got %d", len(tt.wantResults), len(resp.Results))
			}
			for i, want := range tt.wantResults {
				if resp.Results[i].DisplayName != want {
					t.Errorf("result %d: expected %q, got %q", i, want, resp.Results[i].DisplayName)
				}
			}
			if resp.Suggestion != tt.wantSuggestion {
				t.Errorf("expected suggestion %q, got %q", tt.wantSuggestion, resp.Suggestion)
			}
		})
	}
}

func TestSearchHandlerCachesPerRun(t *testing.T) {
	app := newBuiltApplication(t)
	cached := metrics.SearchRequests.WithLabelValues("cached")
	before := testutil.ToFloat64(cached)

	first := httptest.NewRecorder()
	app.searchHandler(first, httptest.NewRequest(http.MethodGet, "/v1/search?q=Leipzig", nil))
	second := httptest.NewRecorder()
	app.searchHandler(second, httptest.NewRequest(http.MethodGet, "/v1/search?q=leipzig%20", nil))

	if got := testutil.ToFloat64(cached) - before; got != 1 {
		t.Errorf("expected the second query to be served from cache, cached count grew by %v", got)
	}
	resp := decodeSearch(t, second)
	if resp.Query != "leipzig " {
		t.Errorf("cached response must echo the caller's query, got %q", resp.Query)
	}
	if len(resp.Results) != 1 || resp.Results[0].GroupName != "Leipzig Hbf" {
		t.Errorf("unexpected cached results %+v", resp.Results)
	}
	if app.SearchCache.ItemCount() != 1 {
		t.Errorf("expected one cache entry, got %d", app.SearchCache.ItemCount())
	}

	// a new run must not serve answers cached for the previous one
	app.ConfigService.Config.ThresholdKm = 1
	if _, err := app.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if app.SearchCache.ItemCount() != 0 {
		t.Errorf("expected the cache to be flushed by a rebuild, got %d entries", app.SearchCache.ItemCount())
	}
	rr := httptest.NewRecorder()
	app.searchHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/search?q=berlin", nil))
	if resp := decodeSearch(t, rr); len(resp.Results) != 2 {
		t.Errorf("expected the two Berlin singletons after the rebuild, got %d results", len(resp.Results))
	}
}

func TestSearchHandlerBeforeBuild(t *testing.T) {
	app := newTestApplication(t)
	rr := httptest.NewRecorder()
	app.searchHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/search?q=berlin", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rr.Code)
	}
}

func TestSearchLimit(t *testing.T) {
	app := newTestApplication(t)

	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 20, false},
		{"5", 5, false},
		{"1000", maxSearchLimit, false},
		{"0", 0, true},
		{"ten", 0, true},
	}
	for _, tt := range tests {
		got, err := app.searchLimit(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("searchLimit(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("searchLimit(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}
