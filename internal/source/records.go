package source

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"stationgroups.onebusaway.org/internal/models"
)

// decodeRecords parses a JSON object of station ID to record.
func decodeRecords(data []byte) (map[string]models.StationRecord, error) {
	var records map[string]models.StationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal station records: %w", err)
	}
	return records, nil
}

// normalizeRecords turns a record map into stations ordered by ID.
// Malformed coordinates become NaN so the clustering engine drops the station.
// defaultCountry fills records that carry no country.
func normalizeRecords(records map[string]models.StationRecord, defaultCountry string) []models.Station {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	stations := make([]models.Station, 0, len(ids))
	for _, id := range ids {
		rec := records[id]
		country := strings.TrimSpace(rec.Country)
		if country == "" {
			country = defaultCountry
		}
		stations = append(stations, models.Station{
			ID:        id,
			Name:      strings.TrimSpace(rec.Name),
			Latitude:  coordinate(rec.Latitude.Valid, rec.Latitude.Value),
			Longitude: coordinate(rec.Longitude.Valid, rec.Longitude.Value),
			Country:   country,
		})
	}
	return stations
}

func coordinate(valid bool, v float64) float64 {
	if !valid {
		return math.NaN()
	}
	return v
}
