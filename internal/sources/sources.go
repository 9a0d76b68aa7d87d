// Package sources implements the upstream connectors that harvest raw
// sighting reports: RSS/Atom observation feeds and forum thread pages.
package sources

import (
	"context"

	"github.com/wildtrack/wildtrack-go/internal/sighting"
)

// Source is a pollable upstream producing raw documents for extraction.
type Source interface {
	Kind() sighting.SourceKind
	Name() string
	Fetch(ctx context.Context) ([]sighting.RawDocument, error)
}
