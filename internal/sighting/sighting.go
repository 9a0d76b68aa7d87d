// Package sighting defines the candidate sighting record produced by the
// extraction step and consumed read-only by the attribution pipeline.
package sighting

import (
	"time"

	"github.com/wildtrack/wildtrack-go/internal/geo"
)

// SourceKind tags where a sighting report was harvested from.
type SourceKind string

const (
	SourceForum  SourceKind = "forum"
	SourceFeed   SourceKind = "feed"
	SourceManual SourceKind = "manual"
)

// Candidate is a single sighting as extracted from a raw source document.
// Stages augment it with verdicts rather than mutating its fields.
type Candidate struct {
	Species       string      // species label, e.g. "elk"
	RawText       string      // original free text of the report
	Point         *geo.Point  // coordinate, when the source provided one
	ClaimedZone   string      // claimed management-zone code, "" when absent
	SourceKind    SourceKind  // which connector produced the report
	ObservedAt    time.Time   // observation time if known, else ingestion time
	LocationLabel string      // free-text place name, e.g. a trailhead
	SourceURL     string      // where the report was harvested from
}

// ObservationDay returns the observation timestamp truncated to UTC
// calendar-day granularity.
func (c *Candidate) ObservationDay() string {
	return c.ObservedAt.UTC().Format("2006-01-02")
}

// RawDocument is one harvested text unit (a forum post, a feed entry, a
// manual submission) before field extraction.
type RawDocument struct {
	SourceKind  SourceKind
	URL         string
	Title       string
	Text        string
	PublishedAt time.Time
}
