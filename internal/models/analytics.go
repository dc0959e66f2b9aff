package models

import (
	"math"
	"sort"
)

// CorrelationPoint is one (trash_level, weight) pair of the scatter plot
type CorrelationPoint struct {
	X float64 `json:"x" db:"x"`
	Y float64 `json:"y" db:"y"`
}

// LevelSample is a trash level reading used to derive fill rates
type LevelSample struct {
	BinID      string  `db:"bin_id"`
	TrashLevel float64 `db:"trash_level"`
	RecordedAt int64   `db:"recorded_at"` // Unix timestamp
}

// AverageFillRates returns each bin's mean fill rate in percent per hour,
// rounded to two decimals. A rate is taken between consecutive readings of
// the same bin; readings at the same second are skipped. Emptying a bin
// gives a negative rate. Bins with fewer than two readings are absent.
func AverageFillRates(samples []LevelSample) map[string]float64 {
	sorted := append([]LevelSample(nil), samples...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].BinID != sorted[j].BinID {
			return sorted[i].BinID < sorted[j].BinID
		}
		return sorted[i].RecordedAt < sorted[j].RecordedAt
	})

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.BinID != cur.BinID {
			continue
		}
		hours := float64(cur.RecordedAt-prev.RecordedAt) / 3600
		if hours <= 0 {
			continue
		}
		sums[cur.BinID] += (cur.TrashLevel - prev.TrashLevel) / hours
		counts[cur.BinID]++
	}

	rates := make(map[string]float64, len(counts))
	for id, n := range counts {
		rates[id] = math.Round(sums[id]/float64(n)*100) / 100
	}
	return rates
}
