package report

import (
	"log"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
)

// SetupSentry initialises the global Sentry client from SENTRY_DSN.
// With no DSN set the client is a no-op, which is what local runs and tests get.
func SetupSentry(env, version string) {
	if err := sentry.Init(clientOptions(env, version)); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	sentry.CaptureMessage("Station groups service started")
}

func clientOptions(env, version string) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:              os.Getenv("SENTRY_DSN"),
		Environment:      env,
		Release:          "stationgroups@" + version,
		EnableTracing:    true,
		Debug:            env == "development",
		TracesSampleRate: 1.0,
	}
}

func FlushSentry() {
	sentry.Flush(2 * time.Second)
}
