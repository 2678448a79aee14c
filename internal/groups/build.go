// Package groups turns raw stations into the ordered list of station
// groups served to the search and map consumers.
package groups

import (
	"sort"
	"strings"

	"stationgroups.onebusaway.org/internal/cluster"
	"stationgroups.onebusaway.org/internal/models"
)

// BuildResult is the outcome of one full engine run.
type BuildResult struct {
	Groups     []models.StationGroup
	Stations   int
	Dropped    int
	Candidates int
	Merges     int
	// MaxDiameterKm is the largest member-to-member distance of any group.
	MaxDiameterKm float64
}

// Build clusters the stations and synthesizes one group per cluster.
//
// Groups are ordered by case-insensitive display name, then group name,
// then the ID of their first member, so identical input always yields an
// identical list.
func Build(stations []models.Station, opts cluster.Options) BuildResult {
	clustered := cluster.Run(stations, opts)

	result := BuildResult{
		Groups:     make([]models.StationGroup, 0, len(clustered.Clusters)),
		Stations:   len(stations) - clustered.Dropped,
		Dropped:    clustered.Dropped,
		Candidates: clustered.Candidates,
		Merges:     clustered.Merges,
	}

	for _, members := range clustered.Clusters {
		if len(members) > 1 {
			if d := cluster.Diameter(members); d > result.MaxDiameterKm {
				result.MaxDiameterKm = d
			}
		}
		result.Groups = append(result.Groups, Synthesize(members))
	}

	sort.SliceStable(result.Groups, func(i, j int) bool {
		gi, gj := result.Groups[i], result.Groups[j]
		if li, lj := strings.ToLower(gi.DisplayName), strings.ToLower(gj.DisplayName); li != lj {
			return li < lj
		}
		if gi.GroupName != gj.GroupName {
			return gi.GroupName < gj.GroupName
		}
		return gi.Stations[0].ID < gj.Stations[0].ID
	})

	return result
}
