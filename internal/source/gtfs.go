package source

import (
	"fmt"
	"math"
	"sort"

	remoteGtfs "github.com/jamespfennell/gtfs"
	"stationgroups.onebusaway.org/internal/models"
)

const (
	locationTypeStop    = 0
	locationTypeStation = 1
)

// stationsFromGTFS selects the groupable places of a static bundle: stations
// (location_type 1) and stops that are not part of a station. Platforms,
// entrances and boarding areas belong to their parent station and are skipped.
// See the parent_station section of https://gtfs.org/schedule/reference/#stopstxt.
func stationsFromGTFS(data []byte, country string) ([]models.Station, error) {
	static, err := remoteGtfs.ParseStatic(data, remoteGtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse GTFS static data: %w", err)
	}

	var stations []models.Station
	for _, stop := range static.Stops {
		switch {
		case stop.Type == locationTypeStation:
		case stop.Type == locationTypeStop && stop.Parent == nil:
		default:
			continue
		}
		lat, lon := math.NaN(), math.NaN()
		if stop.Latitude != nil && stop.Longitude != nil {
			lat, lon = *stop.Latitude, *stop.Longitude
		}
		stations = append(stations, models.Station{
			ID:        stop.Id,
			Name:      stop.Name,
			Latitude:  lat,
			Longitude: lon,
			Country:   country,
		})
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i].ID < stations[j].ID })
	return stations, nil
}
