package validate

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildtrack/wildtrack-go/internal/geo"
)

var (
	estesPark = geo.Point{Lat: 40.3775, Lon: -105.5253}
	denver    = geo.Point{Lat: 39.7392, Lon: -104.9903}
	boston    = geo.Point{Lat: 42.3601, Lon: -71.0589}
)

func square(lat, lon, side float64) geo.Ring {
	return geo.Ring{
		{Lat: lat, Lon: lon},
		{Lat: lat, Lon: lon + side},
		{Lat: lat + side, Lon: lon + side},
		{Lat: lat + side, Lon: lon},
	}
}

// newTestValidator builds a three-zone stand-in for the Colorado study
// area: zone 20 holds Estes Park, zone 46 holds Denver.
func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	regions := []geo.Region{
		{Code: "12", Name: "Unit 12", Polygons: []geo.Polygon{{Outer: square(38, -106, 1)}}},
		{Code: "20", Name: "Unit 20", Polygons: []geo.Polygon{{Outer: square(40, -106, 1)}}},
		{Code: "46", Name: "Unit 46", Polygons: []geo.Polygon{{Outer: square(39, -105.5, 1)}}},
	}
	atlas := geo.NewAtlas()
	require.NoError(t, atlas.Load(regions, 0.5))
	return New(atlas, "CO", "Colorado")
}

func TestExtractRegionMentions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"no mentions", "Saw a huge bull elk this morning", nil},
		{"full name", "...camera is in Virginia", []string{"virginia"}},
		{"word boundary blocks substring", "I'm in Texas", []string{"texas"}},
		{"lowercase full name", "somewhere in colorado's high country", []string{"colorado"}},
		{"uppercase ambiguous abbreviation", "Denver, CO yesterday", []string{"colorado"}},
		{"lowercase ambiguous abbreviation ignored", "or maybe it was a moose", nil},
		{"ambiguous abbreviation needs exact case", "Or so I thought", nil},
		{"multiple states", "Driving from Utah into Colorado", []string{"colorado", "utah"}},
		{"compound state name", "Reported from West Virginia", []string{"west virginia"}},
		{"empty text", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractRegionMentions(tt.text))
		})
	}
}

func TestValidateConsistentClaim(t *testing.T) {
	v := newTestValidator(t)
	verdict, err := v.Validate("Saw 6 elk near Estes Park in Colorado", &estesPark, "20")
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	assert.GreaterOrEqual(t, verdict.Confidence, 0.8)
	assert.Empty(t, verdict.Issues)
	assert.Equal(t, []string{"colorado"}, verdict.MentionedRegions)
	assert.Equal(t, RecommendAccept, verdict.Recommendation)
}

func TestValidateNonCanonicalMention(t *testing.T) {
	v := newTestValidator(t)
	verdict, err := v.Validate("...camera is in Virginia", &denver, "46")
	require.NoError(t, err)

	assert.False(t, verdict.Valid)
	assert.Less(t, verdict.Confidence, 0.2)
	assert.Contains(t, verdict.Issues, IssueNonCanonicalMention)
	assert.Equal(t, RecommendReject, verdict.Recommendation)
}

func TestValidateOutsideCanonicalWithClaim(t *testing.T) {
	v := newTestValidator(t)
	verdict, err := v.Validate("Bear sighting", &boston, "12")
	require.NoError(t, err)

	assert.False(t, verdict.Valid)
	assert.Zero(t, verdict.Confidence)
	assert.Contains(t, verdict.Issues, IssueOutsideCanonicalWithClaim)
	assert.Equal(t, RecommendReject, verdict.Recommendation)
}

func TestValidateOutsideCanonicalWithoutClaim(t *testing.T) {
	v := newTestValidator(t)
	verdict, err := v.Validate("Bear sighting", &boston, "")
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	assert.InDelta(t, 0.6, verdict.Confidence, 1e-9)
	assert.Contains(t, verdict.Issues, IssueOutsideCanonical)
	assert.Equal(t, RecommendReview, verdict.Recommendation)
}

func TestValidateNothingClaimed(t *testing.T) {
	v := newTestValidator(t)
	verdict, err := v.Validate("", nil, "")
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	assert.Equal(t, 1.0, verdict.Confidence)
	assert.Empty(t, verdict.Issues)
	assert.Empty(t, verdict.MentionedRegions)
	assert.Equal(t, RecommendAccept, verdict.Recommendation)
}

func TestValidateUnknownZone(t *testing.T) {
	v := newTestValidator(t)
	verdict, err := v.Validate("elk herd", &estesPark, "404")
	require.NoError(t, err)

	assert.True(t, verdict.Valid)
	assert.InDelta(t, 0.8, verdict.Confidence, 1e-9)
	assert.Contains(t, verdict.Issues, IssueUnknownZone)
}

func TestValidateZoneMismatchNearby(t *testing.T) {
	v := newTestValidator(t)
	// Denver sits in zone 46; zone 20's centroid is ~95 km away, close
	// enough to be a plain mismatch rather than a far-off claim.
	verdict, err := v.Validate("elk herd", &denver, "20")
	require.NoError(t, err)

	assert.Contains(t, verdict.Issues, IssueZoneMismatch)
	assert.InDelta(t, 0.8, verdict.Confidence, 1e-9)
}

func TestValidateFarFromClaimedZone(t *testing.T) {
	v := newTestValidator(t)
	// Estes Park is over 200 km from zone 12's centroid.
	verdict, err := v.Validate("elk herd", &estesPark, "12")
	require.NoError(t, err)

	assert.Contains(t, verdict.Issues, IssueFarFromClaimedZone)
	assert.InDelta(t, 0.6, verdict.Confidence, 1e-9)
	assert.Equal(t, RecommendReview, verdict.Recommendation)
}

func TestValidateInvalidPoint(t *testing.T) {
	v := newTestValidator(t)
	bad := geo.Point{Lat: 95, Lon: 0}
	_, err := v.Validate("elk", &bad, "")
	assert.ErrorIs(t, err, geo.ErrInvalidPoint)
}

func TestValidateCanonicalMentionIsNotPenalized(t *testing.T) {
	v := newTestValidator(t)
	verdict, err := v.Validate("Elk rutting season in Colorado and Wyoming", nil, "")
	require.NoError(t, err)

	// The set includes the canonical region, so the cross-check passes
	// even though another state is named too.
	assert.True(t, verdict.Valid)
	assert.Equal(t, 1.0, verdict.Confidence)
	assert.ElementsMatch(t, []string{"colorado", "wyoming"}, verdict.MentionedRegions)
}

func TestVerdictSerializesEmptyLists(t *testing.T) {
	v := newTestValidator(t)
	verdict, err := v.Validate("", nil, "")
	require.NoError(t, err)

	data, err := json.Marshal(verdict)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"issues":[]`)
	assert.Contains(t, string(data), `"mentioned_regions":[]`)
}

func TestValidateConcurrent(t *testing.T) {
	v := newTestValidator(t)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				verdict, err := v.Validate("Saw 6 elk near Estes Park in Colorado", &estesPark, "20")
				if err != nil || !verdict.Valid {
					t.Error("concurrent validation produced unexpected result")
					return
				}
			}
		}()
	}
	wg.Wait()
}
