package config

import (
	"sync"
	"time"

	"stationgroups.onebusaway.org/internal/cluster"
	"stationgroups.onebusaway.org/internal/models"
)

// Document is the JSON configuration file served from --config-file or --config-url.
type Document struct {
	ThresholdKm    float64                `json:"threshold_km"`
	PreferSameName bool                   `json:"prefer_same_name"`
	SearchLimit    int                    `json:"search_limit"`
	AllowedOrigins []string               `json:"allowed_origins"`
	Sources        []models.StationSource `json:"sources"`
}

// Config holds all the configuration settings for our application.
type Config struct {
	Port            int
	Env             string
	OutputPath      string
	RefreshInterval time.Duration
	// ThresholdKm set on the command line wins over the document value.
	ThresholdKm float64

	Mu             sync.RWMutex
	Sources        []models.StationSource
	docThresholdKm float64
	preferSameName bool
	searchLimit    int
	allowedOrigins []string
}

// NewConfig creates a new instance of a Config struct.
func NewConfig(port int, env string, sources []models.StationSource) *Config {
	return &Config{
		Port:    port,
		Env:     env,
		Sources: sources,
	}
}

// UpdateSources safely replaces the configured station sources.
func (cfg *Config) UpdateSources(newSources []models.StationSource) {
	cfg.Mu.Lock()
	defer cfg.Mu.Unlock()
	cfg.Sources = newSources
}

// Apply replaces every document-backed setting in one step.
func (cfg *Config) Apply(doc *Document) {
	cfg.Mu.Lock()
	defer cfg.Mu.Unlock()
	cfg.Sources = doc.Sources
	cfg.docThresholdKm = doc.ThresholdKm
	cfg.preferSameName = doc.PreferSameName
	cfg.searchLimit = doc.SearchLimit
	cfg.allowedOrigins = append([]string(nil), doc.AllowedOrigins...)
}

// GetSources safely returns a copy of the sources slice to avoid
// concurrent modification issues.
func (cfg *Config) GetSources() []models.StationSource {
	cfg.Mu.RLock()
	defer cfg.Mu.RUnlock()
	return append([]models.StationSource(nil), cfg.Sources...)
}

// ClusterOptions returns the engine options for the next build.
func (cfg *Config) ClusterOptions() cluster.Options {
	cfg.Mu.RLock()
	defer cfg.Mu.RUnlock()
	threshold := cfg.ThresholdKm
	if threshold <= 0 {
		threshold = cfg.docThresholdKm
	}
	return cluster.Options{
		ThresholdKm:    threshold,
		PreferSameName: cfg.preferSameName,
	}
}

// SearchLimit returns the configured default result count, or 0 for the package default.
func (cfg *Config) SearchLimit() int {
	cfg.Mu.RLock()
	defer cfg.Mu.RUnlock()
	return cfg.searchLimit
}

// AllowedOrigins returns the CORS origins allowed to call the API.
// An empty list allows any origin.
func (cfg *Config) AllowedOrigins() []string {
	cfg.Mu.RLock()
	defer cfg.Mu.RUnlock()
	return append([]string(nil), cfg.allowedOrigins...)
}
