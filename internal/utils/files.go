package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/getsentry/sentry-go"
	"stationgroups.onebusaway.org/internal/report"
)

// EnsureDirectory makes sure dir exists and is a directory, creating it if necessary.
func EnsureDirectory(dir string) error {
	stat, err := os.Stat(dir)

	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
					Level: sentry.LevelError,
					ExtraContext: map[string]interface{}{
						"dir": dir,
					},
				})
				return err
			}
			return nil
		}
		return err
	}
	if !stat.IsDir() {
		err := fmt.Errorf("%s is not a directory", dir)
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Level: sentry.LevelError,
			ExtraContext: map[string]interface{}{
				"dir": dir,
			},
		})
		return err
	}
	return nil
}

// ContentHash returns the hex sha1 of the given chunks, fed in order.
// It is used to detect whether station source data changed between refreshes.
func ContentHash(chunks ...[]byte) string {
	h := sha1.New()
	for _, c := range chunks {
		h.Write(c)
		// separator so that ("ab","c") and ("a","bc") hash differently
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
