package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"stationgroups.onebusaway.org/internal/report"
	"stationgroups.onebusaway.org/internal/utils"
)

// DefaultMaxRetries bounds DoWithBackoff for configuration fetches.
const DefaultMaxRetries = 3

// ConfigService holds dependencies and provides config operations.
type ConfigService struct {
	Logger *slog.Logger
	Client *http.Client
	Config *Config
}

// NewConfigService creates a new ConfigService instance with the provided logger and HTTP client.
func NewConfigService(logger *slog.Logger, client *http.Client, config *Config) *ConfigService {
	return &ConfigService{
		Logger: logger,
		Client: client,
		Config: config,
	}
}

// RefreshConfig blocks, re-applying the remote document every interval until ctx is done.
func (cs *ConfigService) RefreshConfig(ctx context.Context, url, authUser, authPass string, interval time.Duration) {
	refreshConfig(ctx, cs.Client, url, authUser, authPass, cs.Config, cs.Logger, interval, DefaultMaxRetries)
}

// exported helper functions

// LoadConfigFromFile loads and validates a configuration document from disk.
func LoadConfigFromFile(filePath string) (*Document, error) {
	doc, err := loadConfigFromFile(filePath)
	if err != nil {
		err := fmt.Errorf("failed to load config from file %s: %w", filePath, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", filePath),
			Level: sentry.LevelError,
		})
		return nil, err
	}
	return doc, nil
}

// LoadConfigFromURL loads and validates a configuration document over HTTP.
func LoadConfigFromURL(ctx context.Context, client *http.Client, url, authUser, authPass string) (*Document, error) {
	doc, err := loadConfigFromURL(ctx, client, url, authUser, authPass, DefaultMaxRetries)
	if err != nil {
		err := fmt.Errorf("failed to load config from URL %s: %w", url, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("config_url", url),
			Level: sentry.LevelError,
		})
		return nil, err
	}
	return doc, nil
}
