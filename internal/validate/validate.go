// Package validate decides whether a claimed sighting location is
// self-consistent: text mentions, coordinate and zone claim are checked
// against the canonical study region in a fixed rule order, and every
// violation leaves a named issue in the verdict.
package validate

import (
	"slices"
	"strings"

	"github.com/wildtrack/wildtrack-go/internal/geo"
	"github.com/wildtrack/wildtrack-go/internal/sighting"
)

// Recommendation tells the orchestrator what to do with a sighting.
type Recommendation string

const (
	RecommendAccept Recommendation = "accept"
	RecommendReview Recommendation = "review"
	RecommendReject Recommendation = "reject"
)

// Issue descriptions, one per rule. Stable strings: they end up in the
// stored record and in batch reports.
const (
	IssueNonCanonicalMention       = "text mentions non-canonical region(s)"
	IssueOutsideCanonicalWithClaim = "coordinates outside canonical region but a zone was claimed"
	IssueOutsideCanonical          = "coordinates outside canonical region"
	IssueUnknownZone               = "claimed zone not present in region set"
	IssueZoneMismatch              = "coordinates resolve to a different zone than claimed"
	IssueFarFromClaimedZone        = "coordinates unusually far from claimed zone"
)

// Scoring constants. Confidence starts at 1.0 and is reduced by a fixed
// penalty per soft issue; hard violations cap or zero it outright.
const (
	softPenalty       = 0.2
	outsidePenalty    = 0.4
	mentionCap        = 0.15
	validityThreshold = 0.5
	acceptThreshold   = 0.8
	farDistanceKm     = 100.0
)

// Verdict is the structured outcome of validating one candidate sighting.
type Verdict struct {
	Valid            bool           `json:"valid"`
	Confidence       float64        `json:"confidence"`
	Issues           []string       `json:"issues"`
	MentionedRegions []string       `json:"mentioned_regions"`
	Recommendation   Recommendation `json:"recommendation"`
}

// Validator checks location claims against the canonical study region.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	atlas         *geo.Atlas
	canonicalName string // lower-cased, e.g. "colorado"
	canonicalCode string // e.g. "CO"
}

// New returns a validator scoped to the given canonical region. The atlas
// provides the study-area boundary and zone geometry.
func New(atlas *geo.Atlas, canonicalCode, canonicalName string) *Validator {
	return &Validator{
		atlas:         atlas,
		canonicalName: strings.ToLower(strings.TrimSpace(canonicalName)),
		canonicalCode: canonicalCode,
	}
}

// Validate applies the rule list to a location claim. Empty text, a nil
// point and an empty zone claim are all valid inputs; the only error case
// is a malformed coordinate, which propagates geo.ErrInvalidPoint.
func (v *Validator) Validate(text string, point *geo.Point, claimedZone string) (Verdict, error) {
	// Issues and mentions start as empty, not nil, so a verdict always
	// serializes its lists as [].
	verdict := Verdict{
		Confidence:       1.0,
		Issues:           []string{},
		MentionedRegions: []string{},
	}
	hard := false

	// Rule 1: extract political-region mentions from the text.
	if mentions := ExtractRegionMentions(text); mentions != nil {
		verdict.MentionedRegions = mentions
	}

	// Rule 2: a non-empty mention set that does not include the canonical
	// region contradicts the claim outright.
	if len(verdict.MentionedRegions) > 0 && !slices.Contains(verdict.MentionedRegions, v.canonicalName) {
		verdict.Issues = append(verdict.Issues, IssueNonCanonicalMention)
		verdict.Confidence = min(verdict.Confidence, mentionCap)
		hard = true
	}

	// Rule 3: a supplied point must fall inside the canonical study area.
	if point != nil {
		if err := geo.CheckPoint(*point); err != nil {
			return Verdict{}, err
		}
		inside, err := v.atlas.ContainsAny(*point)
		if err != nil {
			return Verdict{}, err
		}
		switch {
		case !inside && claimedZone != "":
			// Claiming a specific zone for a point outside the study area
			// is the most severe inconsistency class.
			verdict.Issues = append(verdict.Issues, IssueOutsideCanonicalWithClaim)
			verdict.Confidence = 0
			hard = true
		case !inside:
			verdict.Issues = append(verdict.Issues, IssueOutsideCanonical)
			verdict.Confidence -= outsidePenalty
		default:
			v.checkZoneAgreement(&verdict, *point, claimedZone)
		}
	}

	// Rule 4 falls out of the fold: nothing claimed means nothing was
	// penalized and confidence is still 1.0.

	// Rule 5: aggregate.
	verdict.Confidence = max(verdict.Confidence, 0)
	verdict.Valid = !hard && verdict.Confidence >= validityThreshold
	switch {
	case hard || verdict.Confidence < validityThreshold:
		verdict.Recommendation = RecommendReject
	case verdict.Confidence >= acceptThreshold:
		verdict.Recommendation = RecommendAccept
	default:
		verdict.Recommendation = RecommendReview
	}
	return verdict, nil
}

// checkZoneAgreement applies the soft rules for points inside the study
// area with a zone claim attached.
func (v *Validator) checkZoneAgreement(verdict *Verdict, point geo.Point, claimedZone string) {
	if claimedZone == "" {
		return
	}
	zone, ok := v.atlas.Region(claimedZone)
	if !ok {
		verdict.Issues = append(verdict.Issues, IssueUnknownZone)
		verdict.Confidence -= softPenalty
		return
	}
	if zone.Contains(point) {
		return
	}
	if geo.Distance(point, zone.Centroid()) > farDistanceKm {
		verdict.Issues = append(verdict.Issues, IssueFarFromClaimedZone)
		verdict.Confidence -= 2 * softPenalty
		return
	}
	verdict.Issues = append(verdict.Issues, IssueZoneMismatch)
	verdict.Confidence -= softPenalty
}

// ValidateCandidate validates a candidate sighting record.
func (v *Validator) ValidateCandidate(c *sighting.Candidate) (Verdict, error) {
	return v.Validate(c.RawText, c.Point, c.ClaimedZone)
}
