package routing

import (
	"fmt"
	"log"
	"math"

	"smarttrash-backend/internal/models"
)

// Options configures a RouteOptimizer
type Options struct {
	Strategy Strategy
	// MaxDistance drops edges longer than this many km. Zero means
	// unbounded; negative values are treated the same.
	MaxDistance float64
}

// RouteOptimizer selects bins that fit in the container and orders them into
// a route starting at the container's position. It holds no per-request
// state and is safe for concurrent use.
type RouteOptimizer struct {
	sequencer   *RouteSequencer
	maxDistance float64
}

// NewRouteOptimizer creates a new route optimizer
func NewRouteOptimizer(opts Options) *RouteOptimizer {
	maxDistance := opts.MaxDistance
	if maxDistance <= 0 {
		maxDistance = math.Inf(1)
	}
	return &RouteOptimizer{
		sequencer:   NewRouteSequencer(opts.Strategy),
		maxDistance: maxDistance,
	}
}

// Strategy returns the sequencing strategy in use
func (o *RouteOptimizer) Strategy() Strategy {
	return o.sequencer.Strategy()
}

// Optimize plans a collection round.
//
// Bin selection is a greedy heuristic (see SelectBins): the route is a good
// round, not necessarily the one collecting the most waste. Bins admitted by
// selection but unreachable under the distance cutoff are listed in
// Route.UnroutedBins and do not count towards the totals.
func (o *RouteOptimizer) Optimize(container models.Container, bins []models.Bin) (*models.Route, error) {
	if err := validateInput(container, bins); err != nil {
		return nil, err
	}

	route := &models.Route{
		OrderedBins:  []models.SelectedBin{},
		UnroutedBins: []string{},
	}
	if len(bins) == 0 {
		return route, nil
	}

	selected, err := SelectBins(bins, container)
	if err != nil {
		return nil, err
	}

	log.Printf("🚛 [OPTIMIZE] Container %q: %d/%d bins fit (volume %.2f, weight %.2f)",
		container.Name, len(selected), len(bins), *container.Volume, *container.Weight)

	points := make([]NamedPoint, 0, len(selected)+1)
	points = append(points, NamedPoint{Name: container.Name, Location: container.Location})
	targets := make([]string, 0, len(selected))
	byName := make(map[string]models.Bin, len(selected))
	for _, b := range selected {
		points = append(points, NamedPoint{Name: b.Name, Location: b.Location})
		targets = append(targets, b.Name)
		byName[b.Name] = b
	}

	index, err := BuildDistanceIndex(points)
	if err != nil {
		return nil, fmt.Errorf("failed to build distance index: %w", err)
	}

	seq := o.sequencer.Sequence(container.Name, targets, index, o.maxDistance)

	for _, name := range seq.Visits {
		b := byName[name]
		distance, _ := index.Distance(container.Name, name)
		route.OrderedBins = append(route.OrderedBins, models.SelectedBin{Bin: b, Distance: distance})
		route.TotalVolume += b.WasteVolume()
		route.TotalWeight += b.WasteWeight()
	}
	route.TotalDistance = seq.TotalDistance
	if len(seq.Unreached) > 0 {
		route.UnroutedBins = seq.Unreached
		log.Printf("⚠️  [OPTIMIZE] %d admitted bins unreachable within %.2f km: %v",
			len(seq.Unreached), o.maxDistance, seq.Unreached)
	}

	log.Printf("✅ [OPTIMIZE] Route planned: %d stops, %.2f km, volume %.2f, weight %.2f",
		len(route.OrderedBins), route.TotalDistance, route.TotalVolume, route.TotalWeight)

	return route, nil
}

// validateInput checks every point before any work is done, so a bad bin is
// reported even when it would not have been selected
func validateInput(container models.Container, bins []models.Bin) error {
	if err := ValidateContainer(container); err != nil {
		return err
	}

	names := make(map[string]bool, len(bins)+1)
	names[container.Name] = true
	for _, b := range bins {
		if err := ValidateBin(b); err != nil {
			return err
		}
		if names[b.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateLocationName, b.Name)
		}
		names[b.Name] = true
	}
	return nil
}
