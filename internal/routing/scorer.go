package routing

import (
	"fmt"
	"sort"

	"smarttrash-backend/internal/models"
)

// Priority weights. They do not sum to 1.
const (
	fullnessWeight = 0.6
	volumeWeight   = 0.2
	weightWeight   = 0.4
)

// ScoredBin is a candidate bin with its computed priority
type ScoredBin struct {
	Bin         models.Bin
	WasteVolume float64
	WasteWeight float64
	Score       float64
}

// ValidateContainer checks the container's location and capacity budget
func ValidateContainer(c models.Container) error {
	if c.Volume == nil {
		return fmt.Errorf("%w: volume capacity is required", ErrInvalidContainerSpec)
	}
	if c.Weight == nil {
		return fmt.Errorf("%w: weight capacity is required", ErrInvalidContainerSpec)
	}
	if *c.Volume < 0 {
		return fmt.Errorf("%w: volume capacity %v is negative", ErrInvalidContainerSpec, *c.Volume)
	}
	if *c.Weight < 0 {
		return fmt.Errorf("%w: weight capacity %v is negative", ErrInvalidContainerSpec, *c.Weight)
	}
	if err := ValidateLocation(c.Location); err != nil {
		return fmt.Errorf("container %q: %w", c.Name, err)
	}
	return nil
}

// ValidateBin checks a single bin descriptor
func ValidateBin(b models.Bin) error {
	if b.Name == "" {
		return fmt.Errorf("%w: bin name is required", ErrInvalidBinSpec)
	}
	if !(b.Capacity >= 0 && b.Capacity <= 100) {
		return fmt.Errorf("%w: bin %q fill level %v out of range [0, 100]", ErrInvalidBinSpec, b.Name, b.Capacity)
	}
	if !(b.Volume >= 0) || !(b.Weight >= 0) {
		return fmt.Errorf("%w: bin %q has negative volume or weight", ErrInvalidBinSpec, b.Name)
	}
	if err := ValidateLocation(b.Location); err != nil {
		return fmt.Errorf("bin %q: %w", b.Name, err)
	}
	return nil
}

// ScoreBins computes a priority for every bin and returns them sorted by
// descending score. Bins with equal scores keep their input order.
func ScoreBins(bins []models.Bin) []ScoredBin {
	scored := make([]ScoredBin, len(bins))

	maxVolume, maxWeight := 0.0, 0.0
	for i, b := range bins {
		scored[i] = ScoredBin{
			Bin:         b,
			WasteVolume: b.WasteVolume(),
			WasteWeight: b.WasteWeight(),
		}
		if scored[i].WasteVolume > maxVolume {
			maxVolume = scored[i].WasteVolume
		}
		if scored[i].WasteWeight > maxWeight {
			maxWeight = scored[i].WasteWeight
		}
	}

	for i := range scored {
		normVolume, normWeight := 0.0, 0.0
		if maxVolume > 0 {
			normVolume = scored[i].WasteVolume / maxVolume
		}
		if maxWeight > 0 {
			normWeight = scored[i].WasteWeight / maxWeight
		}
		scored[i].Score = fullnessWeight*scored[i].Bin.Fullness() +
			volumeWeight*normVolume +
			weightWeight*normWeight
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// SelectBins picks the bins to collect on this trip.
//
// Bins are walked in priority order and admitted while the container's
// remaining volume and weight allow it. A bin that would overflow either
// budget is skipped and the scan continues, so smaller lower-priority bins
// can fill the leftover space. This is a greedy heuristic: the result is not
// guaranteed to maximise the collected volume or weight.
func SelectBins(bins []models.Bin, container models.Container) ([]models.Bin, error) {
	if err := ValidateContainer(container); err != nil {
		return nil, err
	}

	volumeCapacity, weightCapacity := *container.Volume, *container.Weight
	selected := make([]models.Bin, 0, len(bins))
	currentVolume, currentWeight := 0.0, 0.0

	for _, sb := range ScoreBins(bins) {
		if currentVolume+sb.WasteVolume > volumeCapacity || currentWeight+sb.WasteWeight > weightCapacity {
			continue
		}
		selected = append(selected, sb.Bin)
		currentVolume += sb.WasteVolume
		currentWeight += sb.WasteWeight
	}

	return selected, nil
}
