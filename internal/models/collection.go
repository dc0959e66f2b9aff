package models

// Location is a WGS84 coordinate in degrees
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Container is the collection vehicle at its starting position.
// Volume and Weight are the remaining capacity budget; nil means the
// caller did not send one.
type Container struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
	Volume   *float64 `json:"volume"`
	Weight   *float64 `json:"weight"`
}

// Bin is a candidate for collection. Capacity is the fill percentage (0-100),
// Volume and Weight are the bin's nominal capacities.
type Bin struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
	Capacity float64  `json:"capacity"`
	Volume   float64  `json:"volume"`
	Weight   float64  `json:"weight"`
}

// Fullness returns the fill percentage as a fraction
func (b Bin) Fullness() float64 {
	return b.Capacity / 100
}

// WasteVolume is the part of the bin's volume currently occupied
func (b Bin) WasteVolume() float64 {
	return b.Volume * b.Fullness()
}

// WasteWeight is the part of the bin's weight capacity currently occupied
func (b Bin) WasteWeight() float64 {
	return b.Weight * b.Fullness()
}

// SelectedBin is a bin placed on a route. Distance is the direct geodesic
// distance from the container in kilometers, not the cumulative path length.
type SelectedBin struct {
	Bin
	Distance float64 `json:"distance"`
}

// Route is the planned collection round
type Route struct {
	OrderedBins   []SelectedBin `json:"ordered_bins"`
	TotalVolume   float64       `json:"total_volume"`
	TotalWeight   float64       `json:"total_weight"`
	TotalDistance float64       `json:"total_distance"`
	UnroutedBins  []string      `json:"unrouted_bins"`
}

// OptimizeRequest is the request body for POST /api/bins/optimize
type OptimizeRequest struct {
	Container Container `json:"container"`
	Bins      []Bin     `json:"bins"`
}

// PlanRouteRequest is the request body for POST /api/routes/plan.
// Candidate bins come from the stored bin states.
type PlanRouteRequest struct {
	Container Container `json:"container"`
}
