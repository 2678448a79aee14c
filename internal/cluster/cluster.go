// Package cluster partitions stations into groups whose members all lie
// within a maximum great-circle distance of each other.
//
// The algorithm is complete-linkage agglomerative clustering driven by a
// global queue of candidate pairs sorted by distance, with a union-find
// forest tracking cluster membership. A pair is merged only when the
// farthest members of the two current clusters are within the threshold,
// so the bound holds for every final cluster, not just for the pair that
// triggered the last merge.
package cluster

import (
	"math"

	"stationgroups.onebusaway.org/internal/geo"
	"stationgroups.onebusaway.org/internal/models"
	"stationgroups.onebusaway.org/internal/names"
)

// DefaultThresholdKm is the default maximum distance between any two
// members of a cluster.
const DefaultThresholdKm = 25.0

// Options control a clustering run.
type Options struct {
	// ThresholdKm is the maximum pairwise distance within a cluster.
	// Zero, negative or non-finite values select DefaultThresholdKm.
	ThresholdKm float64
	// PreferSameName processes pairs of stations sharing a base name
	// before every other pair.
	PreferSameName bool
}

// DefaultOptions returns the pure geometric policy with the default threshold.
func DefaultOptions() Options {
	return Options{ThresholdKm: DefaultThresholdKm}
}

// Threshold returns the effective threshold in kilometers.
func (o Options) Threshold() float64 {
	if o.ThresholdKm <= 0 || math.IsNaN(o.ThresholdKm) || math.IsInf(o.ThresholdKm, 0) {
		return DefaultThresholdKm
	}
	return o.ThresholdKm
}

// Result is the outcome of one clustering run.
type Result struct {
	// Clusters holds the non-empty clusters, ordered by the input position
	// of their first member; members keep input order.
	Clusters [][]models.Station
	// Dropped counts stations excluded for invalid coordinates.
	Dropped int
	// Candidates counts station pairs within the threshold.
	Candidates int
	// Merges counts successful cluster merges.
	Merges int
}

// Run clusters stations. Stations with invalid coordinates are left out of
// the result entirely and counted in Result.Dropped. Given the same input
// order and options, the result is identical across runs.
func Run(stations []models.Station, opts Options) Result {
	threshold := opts.Threshold()

	valid := make([]models.Station, 0, len(stations))
	for _, s := range stations {
		if geo.IsValidLatLon(s.Latitude, s.Longitude) {
			valid = append(valid, s)
		}
	}
	result := Result{Dropped: len(stations) - len(valid)}
	if len(valid) == 0 {
		result.Clusters = [][]models.Station{}
		return result
	}

	cands, dists := buildCandidates(valid, threshold)
	if opts.PreferSameName {
		for i := range cands {
			cands[i].sameName = names.SameBase(valid[cands[i].a].Name, valid[cands[i].b].Name)
		}
	}
	sortCandidates(cands, opts.PreferSameName)
	result.Candidates = len(cands)

	forest := newDisjointSet(len(valid))
	cache := newLinkageCache(len(valid))
	members := make([][]int, len(valid))
	for i := range members {
		members[i] = []int{i}
	}

	for _, c := range cands {
		ra, rb := forest.find(c.a), forest.find(c.b)
		if ra == rb {
			continue
		}

		linkage, ok := cache.get(ra, rb)
		if !ok {
			linkage = completeLinkage(members[ra], members[rb], dists)
			cache.put(ra, rb, linkage)
		}
		if linkage > threshold {
			continue
		}

		// the larger cluster keeps its root
		parent, child := ra, rb
		if len(members[child]) > len(members[parent]) {
			parent, child = child, parent
		}
		root := forest.union(parent, child)
		members[root] = append(members[root], members[child]...)
		members[child] = nil
		cache.changed(root)
		result.Merges++
	}

	rootOrder := make(map[int]int)
	for i := range valid {
		root := forest.find(i)
		pos, seen := rootOrder[root]
		if !seen {
			pos = len(result.Clusters)
			rootOrder[root] = pos
			result.Clusters = append(result.Clusters, nil)
		}
		result.Clusters[pos] = append(result.Clusters[pos], valid[i])
	}

	return result
}

// Diameter returns the largest great-circle distance in kilometers between
// any two of the given stations, or 0 for fewer than two.
func Diameter(stations []models.Station) float64 {
	maxDist := 0.0
	for i := range stations {
		for j := i + 1; j < len(stations); j++ {
			d := geo.HaversineDistance(stations[i].Latitude, stations[i].Longitude, stations[j].Latitude, stations[j].Longitude)
			if d > maxDist {
				maxDist = d
			}
		}
	}
	return maxDist
}
