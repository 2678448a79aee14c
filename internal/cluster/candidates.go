package cluster

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"
	"stationgroups.onebusaway.org/internal/geo"
	"stationgroups.onebusaway.org/internal/models"
)

// candidate is an unordered station pair (a < b) within the threshold.
type candidate struct {
	a, b     int
	dist     float64
	sameName bool
}

// pairKey is the canonical key of an unordered index pair.
func pairKey(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(uint32(b))
}

// searchMargin widens the query box so rounding never hides a pair that
// sits exactly on the threshold. The exact haversine filter runs afterwards.
const searchMargin = 1.01

// buildCandidates returns every station pair with a great-circle distance
// of at most thresholdKm, along with the distance of each pair keyed by pairKey.
//
// Stations are indexed in an R-tree and each one queries a box that is
// guaranteed to contain its whole threshold circle, so the result equals
// the full O(N²) scan.
func buildCandidates(stations []models.Station, thresholdKm float64) ([]candidate, map[uint64]float64) {
	tree := &rtree.RTree{}
	for i, s := range stations {
		point := [2]float64{s.Latitude, s.Longitude}
		tree.Insert(point, point, i)
	}

	var cands []candidate
	dists := make(map[uint64]float64)

	for i, s := range stations {
		for _, box := range searchBoxes(s.Latitude, s.Longitude, thresholdKm) {
			tree.Search(box[0], box[1], func(_, _ [2]float64, data interface{}) bool {
				j, ok := data.(int)
				if !ok || j <= i {
					return true
				}
				key := pairKey(i, j)
				if _, seen := dists[key]; seen {
					return true
				}
				d := geo.HaversineDistance(s.Latitude, s.Longitude, stations[j].Latitude, stations[j].Longitude)
				if d <= thresholdKm {
					dists[key] = d
					cands = append(cands, candidate{a: i, b: j, dist: d})
				}
				return true
			})
		}
	}

	return cands, dists
}

// searchBoxes returns the lat/lon boxes ([min, max] corners) that together
// cover every point within radiusKm of (lat, lon). A box crossing the
// antimeridian is split in two.
func searchBoxes(lat, lon, radiusKm float64) [][2][2]float64 {
	delta := radiusKm / (geo.KmPerDegree) * searchMargin
	deltaRad := delta * math.Pi / 180

	minLat, maxLat := lat-delta, lat+delta
	full := [][2][2]float64{{{minLat, -180}, {maxLat, 180}}}

	if minLat <= -90 || maxLat >= 90 || deltaRad >= math.Pi/2 {
		return full
	}

	cosLat := math.Cos(lat * math.Pi / 180)
	ratio := math.Sin(deltaRad) / cosLat
	if cosLat <= 0 || ratio >= 1 {
		return full
	}

	dLon := math.Asin(ratio) * 180 / math.Pi * searchMargin
	if dLon >= 180 {
		return full
	}

	minLon, maxLon := lon-dLon, lon+dLon
	boxes := [][2][2]float64{{{minLat, minLon}, {maxLat, maxLon}}}
	if minLon < -180 {
		boxes = append(boxes, [2][2]float64{{minLat, minLon + 360}, {maxLat, 180}})
	}
	if maxLon > 180 {
		boxes = append(boxes, [2][2]float64{{minLat, -180}, {maxLat, maxLon - 360}})
	}
	return boxes
}

// sortCandidates orders pairs ascending by distance, ties broken by input
// index. With preferSameName, pairs whose stations share a base name form a
// first block of their own, also ordered by distance.
func sortCandidates(cands []candidate, preferSameName bool) {
	sort.Slice(cands, func(i, j int) bool {
		ci, cj := cands[i], cands[j]
		if preferSameName && ci.sameName != cj.sameName {
			return ci.sameName
		}
		if ci.dist != cj.dist {
			return ci.dist < cj.dist
		}
		if ci.a != cj.a {
			return ci.a < cj.a
		}
		return ci.b < cj.b
	})
}
