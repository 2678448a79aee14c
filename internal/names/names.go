// Package names derives comparable and readable labels from station names.
package names

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
)

// closingSuffixes are station-type words that may close a station name
// without changing which place it refers to. Longer entries come first so
// that "airport station" wins over "station".
var closingSuffixes = sortedByLength([]string{
	// English
	"central station", "main station", "airport station", "station", "airport",
	"north", "south", "east", "west", "central",
	// German
	"hauptbahnhof", "hbf", "bahnhof", "bhf", "bf", "flughafen",
	"nord", "süd", "ost", "west", "mitte",
	// Dutch / Scandinavian
	"centraal", "centraal station", "centralstation", "c",
	// French
	"gare centrale", "gare", "aéroport", "aeroport", "sud", "est", "ouest", "centre",
	// Italian / Spanish / Portuguese
	"stazione centrale", "centrale", "aeroporto",
	"estación central", "estacion central", "aeropuerto", "norte", "sur", "este", "oeste",
	// Polish / Czech
	"główny", "glowny", "hlavní nádraží", "hl.n.", "lotnisko",
})

func sortedByLength(words []string) []string {
	out := append([]string(nil), words...)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}

// BaseName reduces a station name to the part that identifies the place.
//
// Names with a parenthetical are cut right after the last closing
// parenthesis, so qualifiers such as "(Main)" stay part of the base name:
// "Frankfurt (Main) Hbf" becomes "Frankfurt (Main)". Otherwise one known
// closing suffix is stripped: "Berlin Hbf" becomes "Berlin".
func BaseName(name string) string {
	trimmed := strings.TrimSpace(name)

	if i := strings.LastIndex(trimmed, ")"); i >= 0 && strings.Contains(trimmed[:i], "(") {
		return strings.TrimSpace(trimmed[:i+1])
	}

	for _, suffix := range closingSuffixes {
		if len(trimmed) <= len(suffix)+1 {
			continue
		}
		cut := len(trimmed) - len(suffix)
		if !strings.EqualFold(trimmed[cut:], suffix) {
			continue
		}
		if sep := trimmed[cut-1]; sep != ' ' && sep != '-' {
			continue
		}
		if base := strings.TrimRight(trimmed[:cut-1], " -"); base != "" {
			return base
		}
	}

	return trimmed
}

// LongestCommonPrefix returns the leading text shared by every name,
// trimmed of trailing whitespace.
//
// Only the lexicographic extremes are compared: a prefix common to the
// first and last sorted names is common to every name in between.
func LongestCommonPrefix(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}

	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	first := []rune(sorted[0])
	last := []rune(sorted[len(sorted)-1])

	n := 0
	for n < len(first) && n < len(last) && first[n] == last[n] {
		n++
	}

	return strings.TrimRightFunc(string(first[:n]), unicode.IsSpace)
}

// FoldKey returns a case- and diacritic-insensitive key for comparing names:
// "Zürich HB" and "zurich hb" share a key.
func FoldKey(name string) string {
	s := strings.ToLower(unidecode.Unidecode(name))

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}

// SameBase reports whether two station names are textually the same place.
func SameBase(a, b string) bool {
	ka := FoldKey(BaseName(a))
	return ka != "" && ka == FoldKey(BaseName(b))
}
