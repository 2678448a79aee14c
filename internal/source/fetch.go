package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/getsentry/sentry-go"
	"stationgroups.onebusaway.org/internal/config"
	"stationgroups.onebusaway.org/internal/models"
	"stationgroups.onebusaway.org/internal/report"
	"stationgroups.onebusaway.org/internal/utils"
)

// fetch returns the raw bytes of a path- or URL-backed source. Path wins when both are set.
func (s *Service) fetch(ctx context.Context, src models.StationSource) ([]byte, error) {
	if src.Path != "" {
		// Path comes from operator configuration, not user input.
		// #nosec G304
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src.Path, err)
		}
		return data, nil
	}

	host := ""
	if u, err := url.Parse(src.URL); err == nil {
		host = u.Host
	}

	req, err := http.NewRequestWithContext(ctx, "GET", src.URL, nil)
	if err != nil {
		err = fmt.Errorf("failed to create request for %s: %w", src.URL, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.SourceTags(src.Name, src.Type, "host", host),
			ExtraContext: map[string]interface{}{
				"url": src.URL,
			},
		})
		return nil, err
	}

	resp, err := config.DoWithBackoff(ctx, s.Client, req, s.MaxRetries)
	if err != nil {
		err = fmt.Errorf("failed to make GET request to %s: %w", src.URL, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.SourceTags(src.Name, src.Type, "host", host),
			ExtraContext: map[string]interface{}{
				"url": src.URL,
			},
		})
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("unexpected response status %d when downloading %s", resp.StatusCode, src.URL)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.SourceTags(src.Name, src.Type, "host", host),
			ExtraContext: map[string]interface{}{
				"url":    src.URL,
				"status": resp.Status,
			},
			Level: sentry.LevelWarning,
		})
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed to read response body from %s: %w", src.URL, err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags: utils.SourceTags(src.Name, src.Type, "host", host),
		})
		return nil, err
	}
	return data, nil
}
