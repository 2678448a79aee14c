// Package source loads station records from the configured sources and
// normalises them into one deterministic station list.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"stationgroups.onebusaway.org/internal/config"
	"stationgroups.onebusaway.org/internal/geo"
	"stationgroups.onebusaway.org/internal/metrics"
	"stationgroups.onebusaway.org/internal/models"
	"stationgroups.onebusaway.org/internal/report"
	"stationgroups.onebusaway.org/internal/utils"
)

// Result is every station of one load, in source order then ID order.
type Result struct {
	Stations []models.Station
	// Dropped counts stations with malformed or out-of-range coordinates.
	Dropped int
	// Hash identifies the raw content of all sources; equal hashes mean equal input.
	Hash string
}

// Service holds dependencies for loading station sources.
type Service struct {
	Logger     *slog.Logger
	Client     *http.Client
	Backoff    *config.BackoffStore
	MaxRetries int
	now        func() time.Time
}

// NewService creates a new source Service.
func NewService(logger *slog.Logger, client *http.Client, backoff *config.BackoffStore, maxRetries int) *Service {
	return &Service{
		Logger:     logger,
		Client:     client,
		Backoff:    backoff,
		MaxRetries: maxRetries,
		now:        time.Now,
	}
}

// LoadAll loads every source or none. A source in its backoff window, or
// any failing source, fails the whole load so a partial station list is
// never clustered.
//
// Station IDs are prefixed with "<source>:" when more than one source is configured.
func (s *Service) LoadAll(ctx context.Context, sources []models.StationSource) (*Result, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no station sources configured")
	}

	namespaced := len(sources) > 1
	result := &Result{}
	var chunks [][]byte

	for _, src := range sources {
		if !s.Backoff.Ready(src.Name, s.now()) {
			next, _ := s.Backoff.NextRetryAt(src.Name)
			return nil, fmt.Errorf("source %s is backing off until %s", src.Name, next.Format(time.RFC3339))
		}

		stations, raw, err := s.load(ctx, src)
		if err != nil {
			s.Backoff.UpdateBackoff(src.Name)
			metrics.RecordSource(src.Name, src.Type, 0, 0, err)
			report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
				Tags:        utils.SourceTags(src.Name, src.Type),
				Fingerprint: []string{"source-load", src.Name},
				Level:       sentry.LevelError,
			})
			s.Logger.Error("Failed to load station source", "source", src.Name, "error", err)
			return nil, fmt.Errorf("failed to load source %s: %w", src.Name, err)
		}
		s.Backoff.ResetBackoff(src.Name)

		dropped := 0
		for i := range stations {
			if !geo.IsValidLatLon(stations[i].Latitude, stations[i].Longitude) {
				dropped++
			}
			if namespaced {
				stations[i].ID = src.Name + ":" + stations[i].ID
			}
		}
		metrics.RecordSource(src.Name, src.Type, len(stations), dropped, nil)
		s.Logger.Info("Loaded station source", "source", src.Name, "stations", len(stations), "dropped", dropped)

		result.Stations = append(result.Stations, stations...)
		result.Dropped += dropped
		chunks = append(chunks, []byte(src.Name), raw)
	}

	result.Hash = utils.ContentHash(chunks...)
	return result, nil
}

// load returns the stations of one source plus the bytes that identify its content.
func (s *Service) load(ctx context.Context, src models.StationSource) ([]models.Station, []byte, error) {
	switch src.Type {
	case models.SourceTypeJSON:
		data, err := s.fetch(ctx, src)
		if err != nil {
			return nil, nil, err
		}
		records, err := decodeRecords(data)
		if err != nil {
			return nil, nil, err
		}
		return normalizeRecords(records, src.Country), data, nil

	case models.SourceTypeGTFS:
		data, err := s.fetch(ctx, src)
		if err != nil {
			return nil, nil, err
		}
		stations, err := stationsFromGTFS(data, src.Country)
		if err != nil {
			return nil, nil, err
		}
		return stations, data, nil

	case models.SourceTypeOBA:
		stations, err := stationsFromOBA(ctx, s.Client, src)
		if err != nil {
			return nil, nil, err
		}
		// The API has no bundle to hash, so the resolved stations stand in for it.
		raw, err := json.Marshal(stations)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode stations of %s: %w", src.Name, err)
		}
		return stations, raw, nil
	}
	return nil, nil, fmt.Errorf("unknown source type %q", src.Type)
}
