package app

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"stationgroups.onebusaway.org/internal/config"
	"stationgroups.onebusaway.org/internal/source"
	"stationgroups.onebusaway.org/internal/store"
)

const (
	searchCacheTTL     = 5 * time.Minute
	searchCacheCleanup = 10 * time.Minute
)

// Application wires the configuration, station sources, the artifact store
// and the search cache together, and serves them over HTTP.
type Application struct {
	ConfigService *config.ConfigService
	SourceService *source.Service
	Store         *store.ArtifactStore
	SearchCache   *cache.Cache
	Logger        *slog.Logger
	Version       string

	// buildMu serialises rebuilds; lastBuildKey is the input of the stored artifact.
	buildMu      sync.Mutex
	lastBuildKey string
}

// New creates and wires all dependencies for the Application.
func New(cfg *config.Config, logger *slog.Logger, client *http.Client, version string) *Application {
	return &Application{
		ConfigService: config.NewConfigService(logger, client, cfg),
		SourceService: source.NewService(logger, client, config.NewBackoffStore(), config.DefaultMaxRetries),
		Store:         store.NewArtifactStore(),
		SearchCache:   cache.New(searchCacheTTL, searchCacheCleanup),
		Logger:        logger,
		Version:       version,
	}
}
