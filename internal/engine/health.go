package engine

import "errors"

// ErrInsufficientData is returned when a health score is requested over an
// empty reading window. Callers treat it as "no result", not a failure.
var ErrInsufficientData = errors.New("insufficient readings to compute health score")

// Health score weights. Fixed constants, not configurable per plant.
const (
	weightHumidity    = 0.30
	weightTemperature = 0.25
	weightWater       = 0.25
	weightLight       = 0.20
)

// Penalty per unit of deviation outside a tolerated range.
const deviationPenalty = 10.0

// Health is the result of scoring a reading window: the weighted overall
// score plus the window averages the aggregator persists.
type Health struct {
	Score              float64 // [0,100], rounded to 2 decimals
	AvgTemperature     float64
	AvgHumidity        float64
	AvgWaterLevel      float64
	AvgDailyLightHours float64
}

// ScoreWindow computes the 0-100 health score over a reading window
// (typically the trailing 7 days; the caller supplies the window).
// Four sub-scores, each clamped to [0,100], combine as
// 0.30*humidity + 0.25*temperature + 0.25*water + 0.20*light.
func ScoreWindow(readings []Reading, p Profile) (Health, error) {
	if len(readings) == 0 {
		return Health{}, ErrInsufficientData
	}

	var sumTemp, sumHum, sumWater, sumLight float64
	for _, r := range readings {
		sumTemp += r.Temperature
		sumHum += r.Humidity
		sumWater += r.WaterLevel
		sumLight += r.LightHours
	}
	n := float64(len(readings))

	h := Health{
		AvgTemperature:     sumTemp / n,
		AvgHumidity:        sumHum / n,
		AvgWaterLevel:      sumWater / n,
		AvgDailyLightHours: sumLight / n,
	}

	tempScore := rangeScore(h.AvgTemperature, p.MinTemperature, p.MaxTemperature)
	humidityScore := rangeScore(h.AvgHumidity, p.MinHumidity, p.MaxHumidity)
	waterScore := rampScore(h.AvgWaterLevel, p.MinWaterLevel)
	lightScore := ratioScore(h.AvgDailyLightHours, p.LightHours)

	score := humidityScore*weightHumidity +
		tempScore*weightTemperature +
		waterScore*weightWater +
		lightScore*weightLight
	h.Score = Round2(clamp(score, 0, 100))

	return h, nil
}

// rangeScore gives 100 inside [min,max] and loses deviationPenalty points
// per unit outside the nearest bound.
func rangeScore(avg, min, max float64) float64 {
	if avg >= min && avg <= max {
		return 100
	}
	deviation := min - avg
	if avg > max {
		deviation = avg - max
	}
	return clamp(100-deviation*deviationPenalty, 0, 100)
}

// rampScore gives 100 at or above the minimum and ramps linearly down to 0.
func rampScore(avg, min float64) float64 {
	if avg >= min {
		return 100
	}
	if min <= 0 {
		return 100
	}
	return clamp(avg/min*100, 0, 100)
}

// ratioScore caps at 100; excess light is never penalized.
func ratioScore(avg, target float64) float64 {
	if target <= 0 {
		return 100
	}
	return clamp(avg/target*100, 0, 100)
}
