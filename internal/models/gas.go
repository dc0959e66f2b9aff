package models

import "math"

// Gas sensor readings are mapped by the board from the raw MQ value
// (0-1200) to a 0-20 scale before they are sent.
const (
	MaxGasLevel = 20

	// GasAlertLevel is the first level that triggers a push alert
	GasAlertLevel = 14
	// GasEmergencyLevel also notifies the emergency topic
	GasEmergencyLevel = 17
)

// GasBand describes a range of gas levels
type GasBand struct {
	MinLevel        int
	MaxLevel        int
	Message         string
	Gases           []string
	Recommendations []string
}

// GasBands covers 0-20 without gaps, least severe first
var GasBands = []GasBand{
	{
		MinLevel: 0,
		MaxLevel: 4,
		Message:  "✅ Safe environment",
		Gases:    []string{"Clean air"},
	},
	{
		MinLevel: 5,
		MaxLevel: 9,
		Message:  "⚠ Level 1 alert - low concentration",
		Gases:    []string{"Alcohol (ethanol)", "LPG", "Light smoke"},
	},
	{
		MinLevel: 10,
		MaxLevel: 13,
		Message:  "🚨 Level 2 alert - moderate concentration",
		Gases:    []string{"Methane (CH4)", "Propane (C3H8)", "Carbon monoxide (CO)"},
	},
	{
		MinLevel:        14,
		MaxLevel:        16,
		Message:         "🔥 Level 3 alert - high concentration!",
		Gases:           []string{"Butane (C4H10)", "Hydrogen (H2)", "Dense smoke"},
		Recommendations: []string{"🆘 Forced ventilation recommended!"},
	},
	{
		MinLevel: 17,
		MaxLevel: MaxGasLevel,
		Message:  "💀 MAXIMUM ALERT - IMMEDIATE DANGER!",
		Recommendations: []string{
			"🚨 Evacuate the area immediately!",
			"📞 Call emergency services (18/112)",
		},
	},
}

// GasLevelIndex truncates a reading to its integer level, clamped to 0-20
func GasLevelIndex(gasLevel float64) int {
	if math.IsNaN(gasLevel) || gasLevel <= 0 {
		return 0
	}
	if gasLevel >= MaxGasLevel {
		return MaxGasLevel
	}
	return int(gasLevel)
}

// GasBandFor returns the band of an integer level and its severity,
// 1 for the least severe band
func GasBandFor(level int) (GasBand, int) {
	if level < GasBands[0].MinLevel {
		return GasBands[0], 1
	}
	for i, b := range GasBands {
		if level >= b.MinLevel && level <= b.MaxLevel {
			return b, i + 1
		}
	}
	last := len(GasBands) - 1
	return GasBands[last], last + 1
}
