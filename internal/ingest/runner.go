package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/wildtrack/wildtrack-go/internal/extract"
	"github.com/wildtrack/wildtrack-go/internal/logging"
	"github.com/wildtrack/wildtrack-go/internal/observability"
	"github.com/wildtrack/wildtrack-go/internal/sighting"
	"github.com/wildtrack/wildtrack-go/internal/sources"
)

// Summary tallies one ingestion run.
type Summary struct {
	Fetched    int `json:"fetched"`
	Skipped    int `json:"skipped"` // seen in a recent run, not re-extracted
	Extracted  int `json:"extracted"`
	Stored     int `json:"stored"`
	Review     int `json:"review"`
	Rejected   int `json:"rejected"`
	Duplicates int `json:"duplicates"`
	Malformed  int `json:"malformed"`
	Errors     int `json:"errors"`
}

// Runner drives one ingestion pass: fetch from every source, extract
// candidates, and push each through the pipeline with a bounded worker
// pool.
type Runner struct {
	Sources   []sources.Source
	Extractor extract.Extractor
	Pipeline  *Pipeline
	Workers   int

	recent  *gocache.Cache // document digests seen in recent runs
	metrics *observability.Metrics
	log     *slog.Logger
}

// NewRunner assembles a runner. cacheTTL bounds how long a fetched
// document is remembered between runs; re-polled feed items inside that
// window skip extraction entirely.
func NewRunner(srcs []sources.Source, extractor extract.Extractor, pipeline *Pipeline, workers int, cacheTTL time.Duration, metrics *observability.Metrics) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		Sources:   srcs,
		Extractor: extractor,
		Pipeline:  pipeline,
		Workers:   workers,
		recent:    gocache.New(cacheTTL, 2*cacheTTL),
		metrics:   metrics,
		log:       logging.ForService("ingest"),
	}
}

// Run executes one ingestion pass. Individual source or document failures
// are counted and logged, not fatal; the first storage-level error aborts
// the run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var mu sync.Mutex
	summary := Summary{}

	docs := r.fetchAll(ctx, &summary)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(r.Workers)
	for i := range docs {
		doc := docs[i]
		group.Go(func() error {
			candidate, found, err := r.Extractor.Extract(ctx, &doc)
			if err != nil {
				r.log.Warn("extraction failed", "url", doc.URL, "error", err)
				mu.Lock()
				summary.Errors++
				mu.Unlock()
				return nil
			}
			if !found {
				return nil
			}
			mu.Lock()
			summary.Extracted++
			mu.Unlock()

			outcome, err := r.Pipeline.Process(candidate)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case OutcomeStored:
				summary.Stored++
			case OutcomeReview:
				summary.Review++
			case OutcomeRejected:
				summary.Rejected++
			case OutcomeDuplicate:
				summary.Duplicates++
			case OutcomeMalformed:
				summary.Malformed++
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return summary, err
	}

	r.log.Info("ingestion run complete",
		"fetched", summary.Fetched, "extracted", summary.Extracted,
		"stored", summary.Stored, "review", summary.Review,
		"rejected", summary.Rejected, "duplicates", summary.Duplicates)
	return summary, nil
}

// fetchAll polls every source and returns the documents not seen within
// the recent-run cache window.
func (r *Runner) fetchAll(ctx context.Context, summary *Summary) []sighting.RawDocument {
	var fresh []sighting.RawDocument
	for _, src := range r.Sources {
		docs, err := src.Fetch(ctx)
		if err != nil {
			r.log.Warn("source fetch failed", "source", src.Name(), "error", err)
			summary.Errors++
			continue
		}
		if r.metrics != nil {
			r.metrics.DocumentsFetched.WithLabelValues(string(src.Kind())).Add(float64(len(docs)))
		}
		for _, doc := range docs {
			summary.Fetched++
			key := documentDigest(&doc)
			if _, seen := r.recent.Get(key); seen {
				summary.Skipped++
				continue
			}
			r.recent.SetDefault(key, struct{}{})
			fresh = append(fresh, doc)
		}
	}
	return fresh
}

// documentDigest identifies a fetched document for the recent-run cache.
// Unlike the content fingerprint, it keys on the source URL too: the same
// event posted in two places must still reach the deduplicator.
func documentDigest(doc *sighting.RawDocument) string {
	sum := sha256.Sum256([]byte(doc.URL + "\x1f" + doc.Text))
	return hex.EncodeToString(sum[:])
}
