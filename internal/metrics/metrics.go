package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SourceStatus source fetch status (up/down)
	SourceStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "station_source_status",
			Help: "Status of the last fetch of a station source (0 = failed, 1 = ok)",
		},
		[]string{"source", "type"},
	)
)

var (
	StationsLoaded = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "station_source_stations_loaded",
		Help: "Number of station records read from the source in the last fetch",
	}, []string{"source"})

	StationsDropped = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "station_source_stations_dropped",
		Help: "Number of station records from the source dropped for malformed coordinates",
	}, []string{"source"})

	SourceFetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "station_source_fetch_errors_total",
		Help: "Number of failed fetches per station source",
	}, []string{"source"})
)

var (
	GroupsBuilt = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "station_groups_built",
		Help: "Number of station groups in the current artifact",
	})

	MultiStationGroups = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "station_groups_multi_station",
		Help: "Number of groups in the current artifact with two or more stations",
	})

	LargestGroupDiameterKm = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "station_groups_max_diameter_km",
		Help: "Largest pairwise distance inside any group of the current artifact",
	})

	LastBuildTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "station_groups_last_build_timestamp_seconds",
		Help: "Unix time of the last successful build",
	})

	BuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "station_groups_build_duration_seconds",
		Help:    "Time spent clustering and synthesising groups",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	})

	BuildFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "station_groups_build_failures_total",
		Help: "Number of builds that were aborted, by stage",
	}, []string{"stage"})
)

var (
	SearchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "station_groups_search_requests_total",
		Help: "Number of search requests by outcome (hit, miss, empty, cached)",
	}, []string{"outcome"})
)

var (
	OutgoingLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "station_source_http_request_duration_seconds",
		Help:    "Latency of outgoing HTTP requests to station sources",
		Buckets: prometheus.DefBuckets,
	}, []string{"host", "method", "status"})
)
