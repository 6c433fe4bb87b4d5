package extract

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed cities.yaml
var gazetteerYAML []byte

type gazetteer struct {
	Cities  []string `yaml:"cities"`
	Regions []string `yaml:"regions"`
}

var (
	// canonical casing, keyed by lowercase name
	cityNames   map[string]string
	regionNames map[string]string
)

func init() {
	var g gazetteer
	if err := yaml.Unmarshal(gazetteerYAML, &g); err != nil {
		panic(fmt.Sprintf("extract: bad embedded gazetteer: %v", err))
	}
	cityNames = make(map[string]string, len(g.Cities))
	for _, c := range g.Cities {
		cityNames[strings.ToLower(c)] = c
	}
	regionNames = make(map[string]string, len(g.Regions))
	for _, r := range g.Regions {
		regionNames[strings.ToLower(r)] = r
	}
}

// LookupCity returns the canonical casing of a known city name.
func LookupCity(name string) (string, bool) {
	c, ok := cityNames[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// LookupRegion returns the canonical casing of a known region name.
func LookupRegion(name string) (string, bool) {
	r, ok := regionNames[strings.ToLower(strings.TrimSpace(name))]
	return r, ok
}

type placeMatch struct {
	name string
	pos  int
	end  int
}

// Destinations scans free text for gazetteer place names and returns the
// city-level and region-level matches separately, each in order of first
// appearance, deduplicated.
func Destinations(text string) (cities []string, regions []string) {
	lower := strings.ToLower(text)
	cities = findPlaces(lower, cityNames)
	regions = findPlaces(lower, regionNames)
	return cities, regions
}

func findPlaces(lower string, names map[string]string) []string {
	var matches []placeMatch
	for key, canonical := range names {
		pos := wordIndex(lower, key)
		if pos < 0 {
			continue
		}
		matches = append(matches, placeMatch{name: canonical, pos: pos, end: pos + len(key)})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })

	out := make([]string, 0, len(matches))
	for i, m := range matches {
		// "Asia" inside "Southeast Asia" is not its own match.
		nested := false
		for j, other := range matches {
			if i != j && other.pos <= m.pos && m.end <= other.end && (other.end-other.pos) > (m.end-m.pos) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, m.name)
		}
	}
	return out
}

// wordIndex finds needle in haystack on word boundaries, or -1.
func wordIndex(haystack, needle string) int {
	start := 0
	for {
		i := strings.Index(haystack[start:], needle)
		if i < 0 {
			return -1
		}
		i += start
		before := i == 0 || !isWordChar(haystack[i-1])
		afterIdx := i + len(needle)
		after := afterIdx >= len(haystack) || !isWordChar(haystack[afterIdx])
		if before && after {
			return i
		}
		start = i + 1
	}
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

var replySplitter = regexp.MustCompile(`\s*(?:,|\band\b|&|/)\s*`)

// BareCityReply reports whether a message is nothing but one or more city
// names (plus separators and polite filler), as in a short answer to a
// clarifying question. Returns the canonical city names, or nil when the
// message carries any other content.
func BareCityReply(text string) []string {
	cleaned := strings.ToLower(strings.TrimSpace(text))
	cleaned = strings.Trim(cleaned, ".!?")
	for _, filler := range []string{"i'm in", "im in", "from", "it's", "its", "probably", "maybe"} {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, filler))
	}
	if cleaned == "" {
		return nil
	}

	parts := replySplitter.Split(cleaned, -1)
	var cities []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		city, ok := LookupCity(part)
		if !ok {
			return nil
		}
		cities = append(cities, city)
	}
	return cities
}
