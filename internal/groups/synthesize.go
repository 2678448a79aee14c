package groups

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"stationgroups.onebusaway.org/internal/geo"
	"stationgroups.onebusaway.org/internal/models"
	"stationgroups.onebusaway.org/internal/names"
)

// minGroupNameLength is the shortest common prefix, in runes, accepted as a group name.
const minGroupNameLength = 3

// syntheticMarker prefixes the fallback label of groups whose member names
// share no meaningful prefix.
const syntheticMarker = "Group: "

// Synthesize turns one cluster into a StationGroup.
func Synthesize(members []models.Station) models.StationGroup {
	if len(members) == 0 {
		return models.StationGroup{Stations: []models.Station{}}
	}

	sorted := append([]models.Station(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ID < sorted[j].ID
	})

	lat, lon := centroid(sorted)
	group := models.StationGroup{
		Stations:  sorted,
		Latitude:  lat,
		Longitude: lon,
		Country:   dominantCountry(sorted),
		Geohash:   geo.Geohash(lat, lon),
	}

	if len(sorted) == 1 {
		group.GroupName = sorted[0].Name
		group.DisplayName = sorted[0].Name
		return group
	}

	labels := make([]string, len(sorted))
	for i, s := range sorted {
		labels[i] = s.Name
	}
	groupName := names.LongestCommonPrefix(labels)
	if utf8.RuneCountInString(groupName) < minGroupNameLength {
		groupName = syntheticMarker + sorted[0].Name
	}

	group.GroupName = groupName
	group.DisplayName = fmt.Sprintf("%s (%d stations)", groupName, len(sorted))
	group.IsGroup = true
	return group
}

// centroid is the arithmetic mean of member coordinates. It is not a true
// spherical centroid, which is close enough at cluster radii of tens of km.
func centroid(members []models.Station) (float64, float64) {
	var sumLat, sumLon float64
	for _, s := range members {
		sumLat += s.Latitude
		sumLon += s.Longitude
	}
	n := float64(len(members))
	return sumLat / n, sumLon / n
}

// dominantCountry returns the most frequent non-empty country code.
// Ties go to the code seen first in member order.
func dominantCountry(members []models.Station) string {
	counts := make(map[string]int)
	var order []string
	for _, s := range members {
		if s.Country == "" {
			continue
		}
		if counts[s.Country] == 0 {
			order = append(order, s.Country)
		}
		counts[s.Country]++
	}

	best := ""
	for _, country := range order {
		if counts[country] > counts[best] {
			best = country
		}
	}
	return best
}
