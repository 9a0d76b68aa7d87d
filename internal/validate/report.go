package validate

import (
	"github.com/wildtrack/wildtrack-go/internal/sighting"
)

// Report aggregates verdicts over a batch of candidate sightings. It is a
// batch-audit tool; per-record decisions always come from Validate.
type Report struct {
	Total     int            `json:"total"`
	Accepted  int            `json:"accepted"`
	Reviewed  int            `json:"reviewed"`
	Rejected  int            `json:"rejected"`
	Malformed int            `json:"malformed"`
	Mentions  map[string]int `json:"mentions"`
}

// Report runs Validate over the batch and tallies recommendations plus a
// histogram of mentioned region names. Candidates with malformed
// coordinates are counted as rejected and tracked separately.
func (v *Validator) Report(candidates []sighting.Candidate) Report {
	report := Report{Mentions: make(map[string]int)}
	for i := range candidates {
		report.Total++
		verdict, err := v.ValidateCandidate(&candidates[i])
		if err != nil {
			report.Malformed++
			report.Rejected++
			continue
		}
		switch verdict.Recommendation {
		case RecommendAccept:
			report.Accepted++
		case RecommendReview:
			report.Reviewed++
		case RecommendReject:
			report.Rejected++
		}
		for _, name := range verdict.MentionedRegions {
			report.Mentions[name]++
		}
	}
	return report
}
