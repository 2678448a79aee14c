package metrics

import (
	"time"
)

// BuildSummary is what a finished build reports.
type BuildSummary struct {
	Groups        int
	MultiGroups   int
	MaxDiameterKm float64
	Duration      time.Duration
	FinishedAt    time.Time
}

// RecordBuild publishes the gauges describing the artifact that was just stored.
func RecordBuild(s BuildSummary) {
	GroupsBuilt.Set(float64(s.Groups))
	MultiStationGroups.Set(float64(s.MultiGroups))
	LargestGroupDiameterKm.Set(s.MaxDiameterKm)
	BuildDuration.Observe(s.Duration.Seconds())
	LastBuildTimestamp.Set(float64(s.FinishedAt.Unix()))
}

// RecordBuildFailure counts an aborted build. stage is one of "load", "build" or "store".
func RecordBuildFailure(stage string) {
	BuildFailures.WithLabelValues(stage).Inc()
}

// RecordSource publishes the outcome of fetching one station source.
func RecordSource(source, sourceType string, loaded, dropped int, err error) {
	if err != nil {
		SourceStatus.WithLabelValues(source, sourceType).Set(0)
		SourceFetchErrors.WithLabelValues(source).Inc()
		return
	}
	SourceStatus.WithLabelValues(source, sourceType).Set(1)
	StationsLoaded.WithLabelValues(source).Set(float64(loaded))
	StationsDropped.WithLabelValues(source).Set(float64(dropped))
}
