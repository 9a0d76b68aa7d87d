package validate

import (
	"regexp"
	"sort"
	"strings"
)

// Fixed gazetteer of US political-boundary names. Full names match
// case-insensitively on word boundaries. Postal abbreviations match on word
// boundaries too, and the ones that collide with common English words
// ("OR", "IN", ...) only match when written in uppercase, so prose like
// "in Texas" or "hi there" never false-positives.

var stateNames = []string{
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado",
	"connecticut", "delaware", "florida", "georgia", "hawaii", "idaho",
	"illinois", "indiana", "iowa", "kansas", "kentucky", "louisiana", "maine",
	"maryland", "massachusetts", "michigan", "minnesota", "mississippi",
	"missouri", "montana", "nebraska", "nevada", "new hampshire", "new jersey",
	"new mexico", "new york", "north carolina", "north dakota", "ohio",
	"oklahoma", "oregon", "pennsylvania", "rhode island", "south carolina",
	"south dakota", "tennessee", "texas", "utah", "vermont", "virginia",
	"washington", "west virginia", "wisconsin", "wyoming",
}

var stateAbbreviations = map[string]string{
	"AL": "alabama", "AK": "alaska", "AZ": "arizona", "AR": "arkansas",
	"CA": "california", "CO": "colorado", "CT": "connecticut", "DE": "delaware",
	"FL": "florida", "GA": "georgia", "HI": "hawaii", "ID": "idaho",
	"IL": "illinois", "IN": "indiana", "IA": "iowa", "KS": "kansas",
	"KY": "kentucky", "LA": "louisiana", "ME": "maine", "MD": "maryland",
	"MA": "massachusetts", "MI": "michigan", "MN": "minnesota",
	"MS": "mississippi", "MO": "missouri", "MT": "montana", "NE": "nebraska",
	"NV": "nevada", "NH": "new hampshire", "NJ": "new jersey",
	"NM": "new mexico", "NY": "new york", "NC": "north carolina",
	"ND": "north dakota", "OH": "ohio", "OK": "oklahoma", "OR": "oregon",
	"PA": "pennsylvania", "RI": "rhode island", "SC": "south carolina",
	"SD": "south dakota", "TN": "tennessee", "TX": "texas", "UT": "utah",
	"VT": "vermont", "VA": "virginia", "WA": "washington",
	"WV": "west virginia", "WI": "wisconsin", "WY": "wyoming",
}

// ambiguousAbbreviations collide with everyday English words or names and
// are only trusted when written uppercase. Curated list, static by design.
var ambiguousAbbreviations = map[string]bool{
	"AL": true, "CO": true, "DE": true, "HI": true, "ID": true, "IN": true,
	"LA": true, "MA": true, "MD": true, "ME": true, "MO": true, "MS": true,
	"OH": true, "OK": true, "OR": true, "PA": true, "UT": true, "WA": true,
}

var (
	stateNamePattern = regexp.MustCompile(`(?i)\b(` + strings.Join(escapeAll(stateNames), "|") + `)\b`)
	abbrevPattern    = regexp.MustCompile(`\b[A-Za-z]{2}\b`)
)

func escapeAll(names []string) []string {
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = regexp.QuoteMeta(n)
	}
	return escaped
}

// ExtractRegionMentions scans text for political-region mentions and
// returns the set of lower-cased canonical names, sorted.
func ExtractRegionMentions(text string) []string {
	if text == "" {
		return nil
	}
	seen := make(map[string]bool)

	for _, m := range stateNamePattern.FindAllString(text, -1) {
		seen[strings.ToLower(m)] = true
	}

	for _, token := range abbrevPattern.FindAllString(text, -1) {
		upper := strings.ToUpper(token)
		name, ok := stateAbbreviations[upper]
		if !ok {
			continue
		}
		if ambiguousAbbreviations[upper] && token != upper {
			continue
		}
		seen[name] = true
	}

	if len(seen) == 0 {
		return nil
	}
	mentions := make([]string, 0, len(seen))
	for name := range seen {
		mentions = append(mentions, name)
	}
	sort.Strings(mentions)
	return mentions
}
