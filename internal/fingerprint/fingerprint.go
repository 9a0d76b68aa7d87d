// Package fingerprint derives a stable content identity for sightings so
// the same real-world event is stored exactly once no matter how many
// sources re-surface it.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/wildtrack/wildtrack-go/internal/sighting"
)

// Fingerprint is the hex form of a 256-bit content digest. It acts as the
// natural key for deduplication.
type Fingerprint string

// absentToken stands in for absent fields so that "field absent" and
// "field present but empty" never collide.
const absentToken = "\x1f<absent>\x1f"

// fieldSeparator joins the normalized fields. A unit-separator byte does
// not occur in harvested text.
const fieldSeparator = "\x1f"

// normalize maps a field value to its identity form.
func normalize(value string, foldCase bool) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return absentToken
	}
	if foldCase {
		return strings.ToLower(trimmed)
	}
	return trimmed
}

// Compute derives the content fingerprint of a candidate sighting from
// (species, observation day, source kind, raw text, location label).
// Species and location label are case-folded; raw text is only trimmed,
// since exact text equality is part of the identity. The timestamp is
// truncated to UTC calendar-day granularity to absorb sub-day clock skew
// between sources reporting the same observation.
func Compute(c *sighting.Candidate) Fingerprint {
	fields := []string{
		normalize(c.Species, true),
		c.ObservationDay(),
		normalize(string(c.SourceKind), true),
		normalize(c.RawText, false),
		normalize(c.LocationLabel, true),
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, fieldSeparator)))
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// IsDuplicateOf reports whether the candidate's fingerprint is already in
// the set of known fingerprints.
func IsDuplicateOf(known *Set, c *sighting.Candidate) bool {
	return known.Contains(Compute(c))
}
