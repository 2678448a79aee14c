package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/getsentry/sentry-go"
	"stationgroups.onebusaway.org/internal/models"
	"stationgroups.onebusaway.org/internal/report"
	"stationgroups.onebusaway.org/internal/utils"
)

// WriteFile persists artifact as indented JSON at path. The file is written
// next to its destination and renamed into place, so a crash mid-write
// leaves the previous file intact.
func WriteFile(path string, artifact *models.Artifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := utils.EnsureDirectory(dir); err != nil {
		return fmt.Errorf("failed to prepare %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temporary artifact file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		report.ReportErrorWithSentryOptions(err, report.SentryReportOptions{
			Tags:  utils.MakeMap("file_path", path),
			Level: sentry.LevelError,
		})
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	return nil
}

// ReadFile loads an artifact written by WriteFile. A missing file returns
// an error satisfying os.IsNotExist.
func ReadFile(path string) (*models.Artifact, error) {
	// Path comes from the -out flag, not user input.
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}
	return &artifact, nil
}
