// Package ingest wires the attribution pipeline together: zone resolution,
// location validation, fingerprint deduplication and storage, in that
// order, per candidate sighting.
package ingest

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/wildtrack/wildtrack-go/internal/datastore"
	"github.com/wildtrack/wildtrack-go/internal/errors"
	"github.com/wildtrack/wildtrack-go/internal/fingerprint"
	"github.com/wildtrack/wildtrack-go/internal/geo"
	"github.com/wildtrack/wildtrack-go/internal/logging"
	"github.com/wildtrack/wildtrack-go/internal/observability"
	"github.com/wildtrack/wildtrack-go/internal/sighting"
	"github.com/wildtrack/wildtrack-go/internal/validate"
)

// Outcome is the final disposition of one candidate sighting.
type Outcome string

const (
	OutcomeStored    Outcome = "stored"    // accepted and inserted
	OutcomeReview    Outcome = "review"    // stored, flagged for manual follow-up
	OutcomeRejected  Outcome = "rejected"  // verdict suppressed storage
	OutcomeDuplicate Outcome = "duplicate" // fingerprint already known, no-op
	OutcomeMalformed Outcome = "malformed" // invalid coordinates, treated as rejected
)

// Pipeline processes candidate sightings one at a time. It is safe for
// concurrent use: the atlas and validator are read-only after load and the
// fingerprint set does its own locking.
type Pipeline struct {
	atlas     *geo.Atlas
	validator *validate.Validator
	store     datastore.Interface
	seen      *fingerprint.Set
	metrics   *observability.Metrics
	log       *slog.Logger
}

// NewPipeline builds a pipeline and seeds the deduplication set with the
// fingerprints already in the store, so re-harvested events from earlier
// runs are recognized without a database round trip.
func NewPipeline(atlas *geo.Atlas, validator *validate.Validator, store datastore.Interface, metrics *observability.Metrics) (*Pipeline, error) {
	seed, err := store.AllFingerprints()
	if err != nil {
		return nil, fmt.Errorf("seeding deduplication set: %w", err)
	}
	return &Pipeline{
		atlas:     atlas,
		validator: validator,
		store:     store,
		seen:      fingerprint.NewSet(seed...),
		metrics:   metrics,
		log:       logging.ForService("ingest"),
	}, nil
}

// Process runs one candidate through validation, attribution and
// deduplicated storage. Verdict-driven rejection and duplicate absorption
// are normal outcomes, not errors; only infrastructure failures (storage,
// missing region data) return an error.
func (p *Pipeline) Process(c *sighting.Candidate) (Outcome, error) {
	start := time.Now()
	defer func() {
		if p.metrics != nil {
			p.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
		}
	}()

	outcome, err := p.process(c)
	if err != nil {
		return outcome, err
	}
	if p.metrics != nil {
		p.metrics.RecordOutcome(string(outcome))
	}
	return outcome, nil
}

func (p *Pipeline) process(c *sighting.Candidate) (Outcome, error) {
	verdict, err := p.validator.ValidateCandidate(c)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidPoint) {
			// Out-of-range coordinates reject the record, they do not
			// abort the run.
			p.log.Warn("candidate has malformed coordinates",
				"species", c.Species, "source", c.SourceKind, "url", c.SourceURL)
			return OutcomeMalformed, nil
		}
		return "", err
	}

	if verdict.Recommendation == validate.RecommendReject {
		p.log.Debug("candidate rejected by validator",
			"species", c.Species, "issues", verdict.Issues, "confidence", verdict.Confidence)
		return OutcomeRejected, nil
	}

	zoneCode, err := p.attributeZone(c)
	if err != nil {
		return "", err
	}

	fp := fingerprint.Compute(c)
	if !p.seen.Add(fp) {
		return OutcomeDuplicate, nil
	}

	record := datastore.NewSighting(c, &verdict, fp, zoneCode)
	inserted, err := p.store.Save(record)
	if err != nil {
		// The fingerprint must not linger in the set without a backing
		// row, or a retry of the same event would be absorbed as a
		// duplicate with nothing stored.
		p.seen.Remove(fp)
		return "", err
	}
	if !inserted {
		// Another process stored this fingerprint since our seed; the
		// unique index absorbed the insert.
		return OutcomeDuplicate, nil
	}

	if verdict.Recommendation == validate.RecommendReview {
		return OutcomeReview, nil
	}
	return OutcomeStored, nil
}

// attributeZone resolves the management zone for the candidate: geometric
// containment when a point is present, otherwise the claimed zone if it
// names a loaded region.
func (p *Pipeline) attributeZone(c *sighting.Candidate) (string, error) {
	if c.Point != nil {
		code, ok, err := p.atlas.FindRegion(*c.Point)
		if err != nil {
			return "", err
		}
		if ok {
			return code, nil
		}
	}
	if c.ClaimedZone != "" {
		if _, ok := p.atlas.Region(c.ClaimedZone); ok {
			return c.ClaimedZone, nil
		}
	}
	return "", nil
}

// Seen exposes the deduplication set, shared with the API layer so manual
// submissions and batch runs observe the same membership state.
func (p *Pipeline) Seen() *fingerprint.Set {
	return p.seen
}
