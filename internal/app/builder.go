package app

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"stationgroups.onebusaway.org/internal/geo"
	"stationgroups.onebusaway.org/internal/groups"
	"stationgroups.onebusaway.org/internal/metrics"
	"stationgroups.onebusaway.org/internal/models"
	"stationgroups.onebusaway.org/internal/report"
	"stationgroups.onebusaway.org/internal/store"
	"stationgroups.onebusaway.org/internal/utils"
)

// Rebuild loads every station source, clusters the stations and stores the
// new artifact. It reports whether a new artifact was stored.
//
// A run is all-or-nothing: when loading, building or writing fails, the
// previous artifact keeps being served. When neither the source content
// nor the engine options changed since the stored artifact, nothing is
// rebuilt.
func (app *Application) Rebuild(ctx context.Context) (bool, error) {
	app.buildMu.Lock()
	defer app.buildMu.Unlock()

	cfg := app.ConfigService.Config
	loaded, err := app.SourceService.LoadAll(ctx, cfg.GetSources())
	if err != nil {
		metrics.RecordBuildFailure("load")
		return false, fmt.Errorf("failed to load station sources: %w", err)
	}

	opts := cfg.ClusterOptions()
	key := fmt.Sprintf("%s|%g|%t", loaded.Hash, opts.Threshold(), opts.PreferSameName)
	if _, ok := app.Store.Get(); ok && key == app.lastBuildKey {
		app.Logger.Info("Station sources unchanged, skipping rebuild", "source_hash", loaded.Hash)
		return false, nil
	}

	start := time.Now()
	result := groups.Build(loaded.Stations, opts)
	duration := time.Since(start)

	artifact := &models.Artifact{
		RunID:        uuid.NewString(),
		BuiltAt:      time.Now().UTC(),
		ThresholdKm:  opts.Threshold(),
		SourceHash:   loaded.Hash,
		StationCount: result.Stations,
		DroppedCount: result.Dropped,
		Groups:       result.Groups,
	}
	if bbox, err := geo.ComputeBoundingBox(loaded.Stations); err == nil {
		artifact.Bounds = bbox.Bounds()
	}

	if path := cfg.OutputPath; path != "" {
		if err := store.WriteFile(path, artifact); err != nil {
			metrics.RecordBuildFailure("store")
			report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
				Tags:  utils.MakeMap("file_path", path),
				Level: sentry.LevelError,
			})
			return false, fmt.Errorf("failed to write artifact: %w", err)
		}
	}

	app.Store.Set(artifact)
	app.lastBuildKey = key
	app.SearchCache.Flush()

	multi := 0
	for _, g := range artifact.Groups {
		if g.IsGroup {
			multi++
		}
	}
	metrics.RecordBuild(metrics.BuildSummary{
		Groups:        len(artifact.Groups),
		MultiGroups:   multi,
		MaxDiameterKm: result.MaxDiameterKm,
		Duration:      duration,
		FinishedAt:    artifact.BuiltAt,
	})

	app.Logger.Info("Built station groups",
		"run_id", artifact.RunID,
		"groups", len(artifact.Groups),
		"multi_station_groups", multi,
		"stations", artifact.StationCount,
		"dropped", artifact.DroppedCount,
		"candidates", result.Candidates,
		"merges", result.Merges,
		"duration", duration,
	)
	return true, nil
}

// WarmStart serves the artifact persisted at path until the first rebuild succeeds.
func (app *Application) WarmStart(path string) error {
	artifact, err := store.ReadFile(path)
	if err != nil {
		return err
	}
	app.Store.Set(artifact)
	app.Logger.Info("Serving persisted station groups", "run_id", artifact.RunID, "groups", len(artifact.Groups), "path", path)
	return nil
}
