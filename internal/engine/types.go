// Package engine holds the pure monitoring and control core: threshold
// evaluation, health scoring, actuator policies and the ISO week key.
// Nothing in this package touches the database; callers thread profile and
// state snapshots through explicitly so the logic is deterministic.
package engine

import "math"

// Profile is a read-only snapshot of a plant's tolerated ranges.
type Profile struct {
	MinTemperature    float64
	MaxTemperature    float64
	MinHumidity       float64
	MaxHumidity       float64
	MinWaterLevel     float64
	MinSoilMoisture   *float64 // nil applies DefaultMinSoilMoisture
	LightHours        float64  // target daily light hours
	WateringFrequency int      // target waterings per day
}

// DefaultMinSoilMoisture applies when a profile does not set its own
// soil moisture floor.
const DefaultMinSoilMoisture = 30.0

// MinSoilMoistureOrDefault returns the profile's soil moisture floor,
// falling back to the engine default.
func (p Profile) MinSoilMoistureOrDefault() float64 {
	if p.MinSoilMoisture != nil {
		return *p.MinSoilMoisture
	}
	return DefaultMinSoilMoisture
}

// Reading is one sensor sample, stripped of persistence concerns.
type Reading struct {
	Temperature  float64
	Humidity     float64
	SoilMoisture float64
	WaterLevel   float64
	LightHours   float64
}

// Round2 rounds to 2 decimal places, the precision everything is
// persisted and reported at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
