//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	onebusaway "github.com/OneBusAway/go-sdk"
	"github.com/OneBusAway/go-sdk/option"
	"stationgroups.onebusaway.org/internal/models"
)

// TestOBAConnection verifies that every configured OBA source answers the
// current-time endpoint before its stops are resolved.
func TestOBAConnection(t *testing.T) {
	var sources []models.StationSource
	for _, src := range integrationDoc.Sources {
		if src.Type == models.SourceTypeOBA {
			sources = append(sources, src)
		}
	}
	if len(sources) == 0 {
		t.Skip("No OBA sources found in config")
	}

	for _, src := range sources {
		src := src
		t.Run(src.Name, func(t *testing.T) {
			t.Parallel()

			if src.ObaApiKey == "" || src.ObaBaseURL == "" {
				t.Skipf("Skipping source %s: missing API key or base URL", src.Name)
			}

			client := onebusaway.NewClient(
				option.WithAPIKey(src.ObaApiKey),
				option.WithBaseURL(src.ObaBaseURL),
			)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			resp, err := client.CurrentTime.Get(ctx)
			if err != nil {
				t.Fatalf("Source %s (%s): failed to connect to OBA API: %v", src.Name, src.ObaBaseURL, err)
			}
			if resp.Data.Entry.ReadableTime == "" {
				t.Errorf("Source %s (%s): expected non-empty ReadableTime", src.Name, src.ObaBaseURL)
			}
		})
	}
}
