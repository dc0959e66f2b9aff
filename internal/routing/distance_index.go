package routing

import (
	"fmt"

	"smarttrash-backend/internal/models"

	"github.com/tidwall/geodesic"
)

// NamedPoint is a depot or bin position keyed by its unique name
type NamedPoint struct {
	Name     string
	Location models.Location
}

// Neighbor is a point reachable from another point and the distance to it in km
type Neighbor struct {
	Name     string
	Distance float64
}

// DistanceIndex holds the geodesic distance between every pair of points.
// Names are mapped to integer ids at build time and each unordered pair is
// stored once, so lookups are symmetric by construction.
type DistanceIndex struct {
	ids   map[string]int
	names []string
	// upper triangle of the distance matrix, row major, diagonal excluded
	dist []float64
}

// ValidateLocation checks that a coordinate is within WGS84 degree ranges
func ValidateLocation(loc models.Location) error {
	// written as negated ranges so NaN is rejected too
	if !(loc.Latitude >= -90 && loc.Latitude <= 90) {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, loc.Latitude)
	}
	if !(loc.Longitude >= -180 && loc.Longitude <= 180) {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, loc.Longitude)
	}
	return nil
}

// GeodesicDistance returns the WGS84 ellipsoidal surface distance in kilometers
func GeodesicDistance(a, b models.Location) float64 {
	var meters float64
	geodesic.WGS84.Inverse(a.Latitude, a.Longitude, b.Latitude, b.Longitude, &meters, nil, nil)
	return meters / 1000
}

// BuildDistanceIndex computes pairwise geodesic distances for the given points
func BuildDistanceIndex(points []NamedPoint) (*DistanceIndex, error) {
	idx := &DistanceIndex{
		ids:   make(map[string]int, len(points)),
		names: make([]string, 0, len(points)),
	}

	for _, p := range points {
		if err := ValidateLocation(p.Location); err != nil {
			return nil, fmt.Errorf("point %q: %w", p.Name, err)
		}
		if _, exists := idx.ids[p.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLocationName, p.Name)
		}
		idx.ids[p.Name] = len(idx.names)
		idx.names = append(idx.names, p.Name)
	}

	n := len(points)
	if n > 1 {
		idx.dist = make([]float64, n*(n-1)/2)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			idx.dist[idx.slot(i, j)] = GeodesicDistance(points[i].Location, points[j].Location)
		}
	}

	return idx, nil
}

// slot maps i < j to its position in the upper triangle
func (d *DistanceIndex) slot(i, j int) int {
	n := len(d.names)
	return i*n - i*(i+1)/2 + (j - i - 1)
}

func (d *DistanceIndex) between(i, j int) float64 {
	if i == j {
		return 0
	}
	if i > j {
		i, j = j, i
	}
	return d.dist[d.slot(i, j)]
}

// Distance returns the distance between two named points in km.
// The second result is false if either name is unknown.
func (d *DistanceIndex) Distance(a, b string) (float64, bool) {
	i, ok := d.ids[a]
	if !ok {
		return 0, false
	}
	j, ok := d.ids[b]
	if !ok {
		return 0, false
	}
	return d.between(i, j), true
}

// Neighbors returns every other point within maxDistance km of name, in the
// order the points were indexed
func (d *DistanceIndex) Neighbors(name string, maxDistance float64) []Neighbor {
	i, ok := d.ids[name]
	if !ok {
		return nil
	}

	neighbors := make([]Neighbor, 0, len(d.names)-1)
	for j, other := range d.names {
		if j == i {
			continue
		}
		dist := d.between(i, j)
		if dist <= maxDistance {
			neighbors = append(neighbors, Neighbor{Name: other, Distance: dist})
		}
	}
	return neighbors
}

// Names returns the indexed point names in id order
func (d *DistanceIndex) Names() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Len returns the number of indexed points
func (d *DistanceIndex) Len() int {
	return len(d.names)
}
