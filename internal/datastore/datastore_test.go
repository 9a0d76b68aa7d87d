package datastore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildtrack/wildtrack-go/internal/conf"
	"github.com/wildtrack/wildtrack-go/internal/fingerprint"
	"github.com/wildtrack/wildtrack-go/internal/geo"
	"github.com/wildtrack/wildtrack-go/internal/sighting"
	"github.com/wildtrack/wildtrack-go/internal/validate"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	settings := &conf.Settings{}
	settings.Output.SQLite.Enabled = true
	settings.Output.SQLite.Path = filepath.Join(t.TempDir(), "test.db")

	store := &SQLiteStore{Settings: settings}
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testCandidate() sighting.Candidate {
	return sighting.Candidate{
		Species:       "elk",
		RawText:       "Saw 6 elk near Estes Park in Colorado",
		Point:         &geo.Point{Lat: 40.3775, Lon: -105.5253},
		ClaimedZone:   "20",
		SourceKind:    sighting.SourceForum,
		ObservedAt:    time.Date(2026, 8, 14, 6, 30, 0, 0, time.UTC),
		LocationLabel: "Estes Park",
		SourceURL:     "https://forum.example/t/123",
	}
}

func testVerdict() validate.Verdict {
	return validate.Verdict{
		Valid:            true,
		Confidence:       1.0,
		MentionedRegions: []string{"colorado"},
		Recommendation:   validate.RecommendAccept,
	}
}

func storedSighting() *Sighting {
	c := testCandidate()
	v := testVerdict()
	return NewSighting(&c, &v, fingerprint.Compute(&c), "20")
}

func TestSaveIsIdempotentPerFingerprint(t *testing.T) {
	store := openTestStore(t)

	inserted, err := store.Save(storedSighting())
	require.NoError(t, err)
	assert.True(t, inserted)

	// Byte-identical content re-surfaces: silently absorbed, no error,
	// no second row.
	inserted, err = store.Save(storedSighting())
	require.NoError(t, err)
	assert.False(t, inserted)

	fps, err := store.AllFingerprints()
	require.NoError(t, err)
	assert.Len(t, fps, 1)
}

func TestSaveAndGet(t *testing.T) {
	store := openTestStore(t)
	s := storedSighting()

	_, err := store.Save(s)
	require.NoError(t, err)

	got, err := store.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "elk", got.Species)
	assert.Equal(t, "2026-08-14", got.Date)
	assert.Equal(t, "20", got.ZoneCode)
	require.NotNil(t, got.Point())
	assert.InDelta(t, 40.3775, got.Point().Lat, 1e-9)

	byFP, err := store.GetByFingerprint(fingerprint.Fingerprint(s.Fingerprint))
	require.NoError(t, err)
	assert.Equal(t, s.ID, byFP.ID)
}

func TestSearch(t *testing.T) {
	store := openTestStore(t)

	elk := storedSighting()
	_, err := store.Save(elk)
	require.NoError(t, err)

	c := testCandidate()
	c.Species = "moose"
	c.ClaimedZone = "12"
	v := validate.Verdict{Valid: true, Confidence: 0.6, Recommendation: validate.RecommendReview}
	moose := NewSighting(&c, &v, fingerprint.Compute(&c), "12")
	_, err = store.Save(moose)
	require.NoError(t, err)

	bySpecies, err := store.Search(SearchFilter{Species: "moose"})
	require.NoError(t, err)
	require.Len(t, bySpecies, 1)
	assert.Equal(t, "12", bySpecies[0].ZoneCode)

	review := true
	flagged, err := store.Search(SearchFilter{NeedsReview: &review})
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, "moose", flagged[0].Species)

	byZone, err := store.Search(SearchFilter{ZoneCode: "20"})
	require.NoError(t, err)
	require.Len(t, byZone, 1)
	assert.Equal(t, "elk", byZone[0].Species)
}

func TestCounts(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Save(storedSighting())
	require.NoError(t, err)

	c := testCandidate()
	c.Species = "moose"
	v := validate.Verdict{Valid: true, Confidence: 0.6, Recommendation: validate.RecommendReview}
	_, err = store.Save(NewSighting(&c, &v, fingerprint.Compute(&c), "20"))
	require.NoError(t, err)

	byRec, err := store.CountByRecommendation()
	require.NoError(t, err)
	assert.Equal(t, int64(1), byRec["accept"])
	assert.Equal(t, int64(1), byRec["review"])

	byZone, err := store.CountByZone()
	require.NoError(t, err)
	assert.Equal(t, int64(2), byZone["20"])
}

func TestIssueListRoundTrip(t *testing.T) {
	c := testCandidate()
	v := validate.Verdict{
		Confidence:     0.6,
		Issues:         []string{validate.IssueOutsideCanonical, validate.IssueUnknownZone},
		Recommendation: validate.RecommendReview,
	}
	s := NewSighting(&c, &v, fingerprint.Compute(&c), "")
	assert.Equal(t, v.Issues, s.IssueList())

	empty := storedSighting()
	assert.Nil(t, empty.IssueList())
}

func TestNewRequiresOutput(t *testing.T) {
	settings := &conf.Settings{}
	_, err := New(settings)
	assert.Error(t, err)

	settings.Output.SQLite.Enabled = true
	store, err := New(settings)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
}
