package cluster

import "math"

// linkageEntry memoizes the complete-linkage distance between two clusters
// as they were composed at versions versionA/versionB.
type linkageEntry struct {
	versionA int
	versionB int
	dist     float64
}

// linkageCache belongs to a single clustering run. Entries are keyed by the
// canonical pair of cluster roots and are only trusted while both roots are
// still at the recorded composition version.
type linkageCache struct {
	entries map[uint64]linkageEntry
	version []int
}

func newLinkageCache(n int) *linkageCache {
	return &linkageCache{
		entries: make(map[uint64]linkageEntry),
		version: make([]int, n),
	}
}

func (c *linkageCache) get(ra, rb int) (float64, bool) {
	lo, hi := ra, rb
	if lo > hi {
		lo, hi = hi, lo
	}
	e, ok := c.entries[pairKey(lo, hi)]
	if !ok || e.versionA != c.version[lo] || e.versionB != c.version[hi] {
		return 0, false
	}
	return e.dist, true
}

func (c *linkageCache) put(ra, rb int, dist float64) {
	lo, hi := ra, rb
	if lo > hi {
		lo, hi = hi, lo
	}
	c.entries[pairKey(lo, hi)] = linkageEntry{versionA: c.version[lo], versionB: c.version[hi], dist: dist}
}

// changed invalidates every entry that involves root.
func (c *linkageCache) changed(root int) {
	c.version[root]++
}

// completeLinkage returns the largest distance between any member of a and
// any member of b. dists holds every pair within the threshold; a pair
// missing from it is farther than the threshold, so the scan stops there
// and reports +Inf.
func completeLinkage(a, b []int, dists map[uint64]float64) float64 {
	maxDist := 0.0
	for _, x := range a {
		for _, y := range b {
			d, ok := dists[pairKey(x, y)]
			if !ok {
				return math.Inf(1)
			}
			if d > maxDist {
				maxDist = d
			}
		}
	}
	return maxDist
}
