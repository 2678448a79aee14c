package source

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	onebusaway "github.com/OneBusAway/go-sdk"
	"github.com/OneBusAway/go-sdk/option"
	"stationgroups.onebusaway.org/internal/models"
)

// stationsFromOBA resolves each configured stop ID through the OneBusAway
// stop endpoint. One failed lookup fails the source.
func stationsFromOBA(ctx context.Context, httpClient *http.Client, src models.StationSource) ([]models.Station, error) {
	baseURL := src.ObaBaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	opts := []option.RequestOption{
		option.WithAPIKey(src.ObaApiKey),
		option.WithBaseURL(baseURL),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := onebusaway.NewClient(opts...)

	ids := uniqueSorted(src.StopIDs)
	stations := make([]models.Station, 0, len(ids))
	for _, stopID := range ids {
		response, err := client.Stop.Get(ctx, stopID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch stop %s from %s: %w", stopID, src.ObaBaseURL, err)
		}
		if response == nil {
			return nil, fmt.Errorf("empty response for stop %s from %s", stopID, src.ObaBaseURL)
		}
		entry := response.Data.Entry
		stations = append(stations, models.Station{
			ID:        stopID,
			Name:      entry.Name,
			Latitude:  entry.Lat,
			Longitude: entry.Lon,
			Country:   src.Country,
		})
	}
	return stations, nil
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
