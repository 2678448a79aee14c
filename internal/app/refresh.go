package app

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"stationgroups.onebusaway.org/internal/report"
)

// StartRefresh rebuilds the artifact every interval until ctx is cancelled.
// Failures are logged and reported; the previous artifact stays in place.
func (app *Application) StartRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				app.Logger.Info("Stopping station group refresh")
				return
			case <-ticker.C:
				app.refreshOnce(ctx)
			}
		}
	}()
}

func (app *Application) refreshOnce(ctx context.Context) {
	if _, err := app.Rebuild(ctx); err != nil {
		app.Logger.Error("Failed to rebuild station groups", "error", err)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Level: sentry.LevelWarning,
		})
	}
}
