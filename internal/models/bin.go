package models

import "time"

// TelemetryReading is the payload a bin's sensor board posts to
// /api/bins/telemetry
type TelemetryReading struct {
	BinID       string   `json:"bin_id"`
	Name        string   `json:"name"`
	Location    Location `json:"location"`
	TrashLevel  float64  `json:"trash_level"`
	TrashType   string   `json:"trash_type"`
	GasLevel    float64  `json:"gaz_level"`
	Humidity    float64  `json:"humidity"`
	Temperature float64  `json:"temperature"`
	Weight      float64  `json:"weight"`

	// Nominal capacities, only sent by boards that know their enclosure
	Volume         *float64 `json:"volume,omitempty"`
	WeightCapacity *float64 `json:"weight_capacity,omitempty"`
}

// Capacities assumed for a bin that never reported its own (a 240 l wheelie bin)
const (
	DefaultBinVolume         = 240.0
	DefaultBinWeightCapacity = 100.0
)

// BinState is the latest known state of a bin (bins_current table)
type BinState struct {
	ID             string  `json:"id" db:"id"`
	Name           string  `json:"name" db:"name"`
	Latitude       float64 `json:"latitude" db:"latitude"`
	Longitude      float64 `json:"longitude" db:"longitude"`
	TrashLevel     float64 `json:"trash_level" db:"trash_level"`
	TrashType      string  `json:"trash_type" db:"trash_type"`
	GasLevel       float64 `json:"gaz_level" db:"gas_level"`
	Humidity       float64 `json:"humidity" db:"humidity"`
	Temperature    float64 `json:"temperature" db:"temperature"`
	Weight         float64 `json:"weight" db:"weight"`
	Volume         float64 `json:"volume" db:"volume"`
	WeightCapacity float64 `json:"weight_capacity" db:"weight_capacity"`
	UpdatedAt      int64   `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// BinHistoryEntry is one stored reading (bins_history table)
type BinHistoryEntry struct {
	ID          string  `json:"id" db:"id"`
	BinID       string  `json:"bin_id" db:"bin_id"`
	TrashLevel  float64 `json:"trash_level" db:"trash_level"`
	GasLevel    float64 `json:"gaz_level" db:"gas_level"`
	Humidity    float64 `json:"humidity" db:"humidity"`
	Temperature float64 `json:"temperature" db:"temperature"`
	Weight      float64 `json:"weight" db:"weight"`
	RecordedAt  int64   `json:"-" db:"recorded_at"` // Unix timestamp
}

// BinHistoryResponse is what we send to the client with ISO timestamps
type BinHistoryResponse struct {
	BinHistoryEntry
	RecordedAtIso string `json:"recorded_at"`
}

// ToResponse converts a history row to its client form
func (e BinHistoryEntry) ToResponse() BinHistoryResponse {
	return BinHistoryResponse{
		BinHistoryEntry: e,
		RecordedAtIso:   time.Unix(e.RecordedAt, 0).UTC().Format(time.RFC3339),
	}
}

// ToBin turns the stored state into a routing candidate keyed by bin id.
// The trash level is the fill percentage.
func (s BinState) ToBin() Bin {
	return Bin{
		Name:     s.ID,
		Location: Location{Latitude: s.Latitude, Longitude: s.Longitude},
		Capacity: s.TrashLevel,
		Volume:   s.Volume,
		Weight:   s.WeightCapacity,
	}
}

// ToState builds the bins_current row for a reading
func (r TelemetryReading) ToState(now time.Time) BinState {
	volume, weightCapacity := DefaultBinVolume, DefaultBinWeightCapacity
	if r.Volume != nil {
		volume = *r.Volume
	}
	if r.WeightCapacity != nil {
		weightCapacity = *r.WeightCapacity
	}
	return BinState{
		ID:             r.BinID,
		Name:           r.Name,
		Latitude:       r.Location.Latitude,
		Longitude:      r.Location.Longitude,
		TrashLevel:     r.TrashLevel,
		TrashType:      r.TrashType,
		GasLevel:       r.GasLevel,
		Humidity:       r.Humidity,
		Temperature:    r.Temperature,
		Weight:         r.Weight,
		Volume:         volume,
		WeightCapacity: weightCapacity,
		UpdatedAt:      now.Unix(),
	}
}
