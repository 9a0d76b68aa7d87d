package datastore

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wildtrack/wildtrack-go/internal/fingerprint"
	"github.com/wildtrack/wildtrack-go/internal/geo"
	"github.com/wildtrack/wildtrack-go/internal/sighting"
	"github.com/wildtrack/wildtrack-go/internal/validate"
)

// issueSeparator joins verdict issues for storage. Issue strings are fixed
// constants and never contain it.
const issueSeparator = "; "

// Sighting is the persisted record of an accepted (or review-flagged)
// sighting. Fingerprint carries the at-most-one-record-per-event
// invariant via its unique index.
type Sighting struct {
	ID          string `gorm:"primaryKey;size:36"`
	Fingerprint string `gorm:"uniqueIndex;size:64;not null"`

	Species       string `gorm:"index"`
	Date          string `gorm:"index"` // observation day, ISO 8601
	ObservedAt    time.Time
	SourceKind    string `gorm:"index"`
	SourceURL     string
	RawText       string
	LocationLabel string

	Latitude  *float64
	Longitude *float64

	ZoneCode    string `gorm:"index"` // zone attributed by the region index
	ClaimedZone string // zone claimed by the source, if any

	Valid            bool
	Confidence       float64
	Issues           string
	MentionedRegions string
	Recommendation   string
	NeedsReview      bool `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSighting assembles a storable record from a candidate, its verdict,
// its fingerprint and the attributed zone.
func NewSighting(c *sighting.Candidate, verdict *validate.Verdict, fp fingerprint.Fingerprint, zoneCode string) *Sighting {
	s := &Sighting{
		ID:               uuid.NewString(),
		Fingerprint:      string(fp),
		Species:          c.Species,
		Date:             c.ObservationDay(),
		ObservedAt:       c.ObservedAt,
		SourceKind:       string(c.SourceKind),
		SourceURL:        c.SourceURL,
		RawText:          c.RawText,
		LocationLabel:    c.LocationLabel,
		ZoneCode:         zoneCode,
		ClaimedZone:      c.ClaimedZone,
		Valid:            verdict.Valid,
		Confidence:       verdict.Confidence,
		Issues:           strings.Join(verdict.Issues, issueSeparator),
		MentionedRegions: strings.Join(verdict.MentionedRegions, issueSeparator),
		Recommendation:   string(verdict.Recommendation),
		NeedsReview:      verdict.Recommendation == validate.RecommendReview,
	}
	if c.Point != nil {
		lat, lon := c.Point.Lat, c.Point.Lon
		s.Latitude = &lat
		s.Longitude = &lon
	}
	return s
}

// Candidate rebuilds the ingestion-time candidate from the stored
// record, for re-auditing after boundary or rule updates.
func (s *Sighting) Candidate() *sighting.Candidate {
	return &sighting.Candidate{
		Species:       s.Species,
		RawText:       s.RawText,
		Point:         s.Point(),
		ClaimedZone:   s.ClaimedZone,
		SourceKind:    sighting.SourceKind(s.SourceKind),
		ObservedAt:    s.ObservedAt,
		LocationLabel: s.LocationLabel,
		SourceURL:     s.SourceURL,
	}
}

// Point returns the stored coordinate, if one was recorded.
func (s *Sighting) Point() *geo.Point {
	if s.Latitude == nil || s.Longitude == nil {
		return nil
	}
	return &geo.Point{Lat: *s.Latitude, Lon: *s.Longitude}
}

// IssueList splits the stored issue string back into its parts.
func (s *Sighting) IssueList() []string {
	if s.Issues == "" {
		return nil
	}
	return strings.Split(s.Issues, issueSeparator)
}
