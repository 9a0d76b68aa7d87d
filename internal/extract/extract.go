// Package extract turns raw source documents into structured candidate
// sightings. The actual free-text-to-field extraction is delegated to a
// remote model gateway and treated as an opaque oracle.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wildtrack/wildtrack-go/internal/errors"
	"github.com/wildtrack/wildtrack-go/internal/geo"
	"github.com/wildtrack/wildtrack-go/internal/sighting"
)

// Extractor produces at most one candidate sighting per document. found is
// false when the document contains no wildlife sighting.
type Extractor interface {
	Extract(ctx context.Context, doc *sighting.RawDocument) (c *sighting.Candidate, found bool, err error)
}

// RemoteExtractor calls an HTTP extraction gateway.
type RemoteExtractor struct {
	Endpoint string
	Client   *http.Client
}

// NewRemoteExtractor returns an extractor against the given endpoint.
func NewRemoteExtractor(endpoint string, timeout time.Duration) *RemoteExtractor {
	return &RemoteExtractor{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

type extractRequest struct {
	Text      string `json:"text"`
	SourceURL string `json:"source_url,omitempty"`
}

type extractResponse struct {
	Found         bool     `json:"found"`
	Species       string   `json:"species"`
	Snippet       string   `json:"snippet"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Zone          string   `json:"zone"`
	LocationLabel string   `json:"location_label"`
	ObservedAt    string   `json:"observed_at"` // RFC 3339, optional
}

// Extract posts the document text to the gateway and maps the structured
// reply onto a candidate sighting.
func (e *RemoteExtractor) Extract(ctx context.Context, doc *sighting.RawDocument) (*sighting.Candidate, bool, error) {
	payload, err := json.Marshal(extractRequest{Text: doc.Text, SourceURL: doc.URL})
	if err != nil {
		return nil, false, fmt.Errorf("encoding extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("building extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, false, errors.New(fmt.Errorf("calling extraction gateway: %w", err)).
			Component("extract").
			Category(errors.CategoryExtraction).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, errors.Newf("extraction gateway returned %d: %s", resp.StatusCode, body).
			Component("extract").
			Category(errors.CategoryExtraction).
			Build()
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decoding extraction response: %w", err)
	}
	if !out.Found || out.Species == "" {
		return nil, false, nil
	}

	candidate := &sighting.Candidate{
		Species:       out.Species,
		RawText:       doc.Text,
		ClaimedZone:   out.Zone,
		SourceKind:    doc.SourceKind,
		ObservedAt:    observationTime(&out, doc),
		LocationLabel: out.LocationLabel,
		SourceURL:     doc.URL,
	}
	if out.Latitude != nil && out.Longitude != nil {
		candidate.Point = &geo.Point{Lat: *out.Latitude, Lon: *out.Longitude}
	}
	return candidate, true, nil
}

// observationTime prefers the extracted observation time, then the
// document's publication time, then now.
func observationTime(out *extractResponse, doc *sighting.RawDocument) time.Time {
	if out.ObservedAt != "" {
		if ts, err := time.Parse(time.RFC3339, out.ObservedAt); err == nil {
			return ts
		}
	}
	if !doc.PublishedAt.IsZero() {
		return doc.PublishedAt
	}
	return time.Now().UTC()
}
