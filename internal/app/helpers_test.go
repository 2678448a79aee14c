package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stationgroups.onebusaway.org/internal/config"
	"stationgroups.onebusaway.org/internal/models"
)

const stationsJSON = `{
	"8011160": {"name": "Berlin Hbf", "lat": 52.5251, "lon": 13.3694, "country": "DE"},
	"8010255": {"name": "Berlin Ostbahnhof", "lat": "52.5108", "lon": "13.4348", "country": "DE"},
	"8010205": {"name": "Leipzig Hbf", "lat": 51.3455, "lon": 12.3821, "country": "DE"},
	"8099999": {"name": "Broken", "lat": "n/a", "lon": 13.0}
}`

// writeStations writes a station record file and returns its path.
func writeStations(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write stations: %v", err)
	}
	return path
}

func newTestApplication(t *testing.T, sources ...models.StationSource) *Application {
	t.Helper()

	cfg := config.NewConfig(4000, "testing", sources)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, logger, &http.Client{Timeout: 5 * time.Second}, "test-version")
}

// newBuiltApplication returns an application that has built groups from stationsJSON.
func newBuiltApplication(t *testing.T) *Application {
	t.Helper()
	path := writeStations(t, stationsJSON)
	app := newTestApplication(t, *models.NewStationSource("rail", models.SourceTypeJSON, path, "", ""))
	if _, err := app.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	return app
}
