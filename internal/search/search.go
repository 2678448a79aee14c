// Package search ranks station groups against a typeahead query.
//
// Search is a pure read over an immutable group list and is safe to call
// from any number of goroutines.
package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"stationgroups.onebusaway.org/internal/models"
)

// DefaultLimit is the result count used when the caller passes none.
const DefaultLimit = 20

// DefaultSuggestDistance is the edit distance accepted by Suggest when the caller passes none.
const DefaultSuggestDistance = 2

type match struct {
	group       models.StationGroup
	groupName   string
	displayName string
	exact       int
	prefix      int
}

// Search returns at most limit groups whose group name, display name,
// country or any member name contains query (case-insensitively).
//
// Results are ranked by, in order: exact match on group name then display
// name; prefix match on group name then display name; multi-station groups
// before singles, larger first; display name, case-insensitively.
//
// An empty query returns no results rather than every group.
func Search(groups []models.StationGroup, query string, limit int) []models.StationGroup {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.StationGroup{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var matches []match
	for _, g := range groups {
		groupName := strings.ToLower(g.GroupName)
		displayName := strings.ToLower(g.DisplayName)
		if !contains(g, groupName, displayName, q) {
			continue
		}
		matches = append(matches, match{
			group:       g,
			groupName:   groupName,
			displayName: displayName,
			exact:       tier(groupName == q, displayName == q),
			prefix:      tier(strings.HasPrefix(groupName, q), strings.HasPrefix(displayName, q)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.exact != b.exact {
			return a.exact < b.exact
		}
		if a.prefix != b.prefix {
			return a.prefix < b.prefix
		}
		if a.group.IsGroup != b.group.IsGroup {
			return a.group.IsGroup
		}
		if a.group.IsGroup && len(a.group.Stations) != len(b.group.Stations) {
			return len(a.group.Stations) > len(b.group.Stations)
		}
		return a.displayName < b.displayName
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]models.StationGroup, len(matches))
	for i, m := range matches {
		results[i] = m.group
	}
	return results
}

// tier maps a (group name, display name) test pair to a rank: 0 when the
// group name matches, 1 when only the display name does, 2 otherwise.
func tier(onGroupName, onDisplayName bool) int {
	switch {
	case onGroupName:
		return 0
	case onDisplayName:
		return 1
	default:
		return 2
	}
}

func contains(g models.StationGroup, groupName, displayName, q string) bool {
	if strings.Contains(groupName, q) || strings.Contains(displayName, q) {
		return true
	}
	if g.Country != "" && strings.Contains(strings.ToLower(g.Country), q) {
		return true
	}
	for _, s := range g.Stations {
		if strings.Contains(strings.ToLower(s.Name), q) {
			return true
		}
	}
	return false
}

// Suggest returns the group name closest to query by Levenshtein distance,
// for "did you mean" hints when Search finds nothing. Only names within
// maxDistance edits qualify; ties go to the larger group, then to the name
// that sorts first. It returns "" when nothing is close enough.
func Suggest(groups []models.StationGroup, query string, maxDistance int) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return ""
	}
	if maxDistance <= 0 {
		maxDistance = DefaultSuggestDistance
	}

	best := ""
	bestDist := maxDistance + 1
	bestSize := 0
	for _, g := range groups {
		name := strings.ToLower(g.GroupName)
		d := levenshtein.ComputeDistance(q, name)
		if d > maxDistance {
			continue
		}
		size := len(g.Stations)
		if d < bestDist || (d == bestDist && (size > bestSize || (size == bestSize && g.GroupName < best))) {
			best, bestDist, bestSize = g.GroupName, d, size
		}
	}
	return best
}
