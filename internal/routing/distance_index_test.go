package routing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smarttrash-backend/internal/models"
)

func pt(name string, lat, lng float64) NamedPoint {
	return NamedPoint{Name: name, Location: models.Location{Latitude: lat, Longitude: lng}}
}

func TestBuildDistanceIndexKnownDistances(t *testing.T) {
	idx, err := BuildDistanceIndex([]NamedPoint{
		pt("origin", 0, 0),
		pt("east", 0, 1),
		pt("north", 1, 0),
	})
	require.NoError(t, err)

	// one degree along the equator and along a meridian on WGS84
	d, ok := idx.Distance("origin", "east")
	require.True(t, ok)
	assert.InDelta(t, 111.319, d, 0.01)

	d, ok = idx.Distance("origin", "north")
	require.True(t, ok)
	assert.InDelta(t, 110.574, d, 0.01)
}

func TestDistanceIndexSymmetricAndIdempotent(t *testing.T) {
	points := []NamedPoint{
		pt("depot", 48.8566, 2.3522),
		pt("bin-1", 48.8606, 2.3376),
		pt("bin-2", 48.8530, 2.3499),
		pt("bin-3", 48.8738, 2.2950),
		pt("bin-4", 48.8867, 2.3431),
	}
	idx, err := BuildDistanceIndex(points)
	require.NoError(t, err)
	assert.Equal(t, 5, idx.Len())

	for _, a := range points {
		for _, b := range points {
			ab, ok := idx.Distance(a.Name, b.Name)
			require.True(t, ok)
			ba, ok := idx.Distance(b.Name, a.Name)
			require.True(t, ok)
			assert.Equal(t, ab, ba, "%s <-> %s", a.Name, b.Name)

			again, _ := idx.Distance(a.Name, b.Name)
			assert.Equal(t, ab, again)

			if a.Name == b.Name {
				assert.Zero(t, ab)
			} else {
				assert.Greater(t, ab, 0.0)
				assert.InDelta(t, GeodesicDistance(a.Location, b.Location), ab, 1e-9)
			}
		}
	}
}

func TestDistanceIndexUnknownName(t *testing.T) {
	idx, err := BuildDistanceIndex([]NamedPoint{pt("a", 10, 10)})
	require.NoError(t, err)

	_, ok := idx.Distance("a", "missing")
	assert.False(t, ok)
	_, ok = idx.Distance("missing", "a")
	assert.False(t, ok)
	assert.Nil(t, idx.Neighbors("missing", math.Inf(1)))
}

func TestBuildDistanceIndexInvalidCoordinate(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
	}{
		{"latitude too high", 200, 0},
		{"latitude too low", -90.5, 0},
		{"longitude too high", 0, 180.01},
		{"longitude too low", 0, -181},
		{"latitude NaN", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildDistanceIndex([]NamedPoint{pt("ok", 0, 0), pt("bad", tt.lat, tt.lng)})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCoordinate)
		})
	}
}

func TestBuildDistanceIndexBoundaryCoordinates(t *testing.T) {
	idx, err := BuildDistanceIndex([]NamedPoint{pt("np", 90, 180), pt("sp", -90, -180)})
	require.NoError(t, err)

	d, ok := idx.Distance("np", "sp")
	require.True(t, ok)
	// pole to pole along a meridian
	assert.InDelta(t, 20003.93, d, 0.1)
}

func TestBuildDistanceIndexDuplicateName(t *testing.T) {
	_, err := BuildDistanceIndex([]NamedPoint{pt("a", 0, 0), pt("b", 1, 1), pt("a", 2, 2)})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateLocationName)
}

func TestDistanceIndexNeighborsCutoff(t *testing.T) {
	idx, err := BuildDistanceIndex([]NamedPoint{
		pt("depot", 0, 0),
		pt("near", 0, 0.1),
		pt("far", 0, 1),
	})
	require.NoError(t, err)

	all := idx.Neighbors("depot", math.Inf(1))
	require.Len(t, all, 2)
	assert.Equal(t, "near", all[0].Name)
	assert.Equal(t, "far", all[1].Name)

	nearby := idx.Neighbors("depot", 50)
	require.Len(t, nearby, 1)
	assert.Equal(t, "near", nearby[0].Name)

	assert.Equal(t, []string{"depot", "near", "far"}, idx.Names())
}

func TestBuildDistanceIndexEmptyAndSingle(t *testing.T) {
	idx, err := BuildDistanceIndex(nil)
	require.NoError(t, err)
	assert.Zero(t, idx.Len())

	idx, err = BuildDistanceIndex([]NamedPoint{pt("only", 1, 1)})
	require.NoError(t, err)
	d, ok := idx.Distance("only", "only")
	assert.True(t, ok)
	assert.Zero(t, d)
	assert.Empty(t, idx.Neighbors("only", math.Inf(1)))
}
