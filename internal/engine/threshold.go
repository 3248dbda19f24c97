package engine

import (
	"fmt"
	"strconv"
)

// Alert types.
const (
	AlertTemperature  = "temperature"
	AlertHumidity     = "humidity"
	AlertWater        = "water"
	AlertSoilMoisture = "soilMoisture"
	AlertLight        = "light"
)

// Alert priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// PriorityRank orders priorities for display: high before medium before low.
// Unknown priorities sort last.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// AlertIntent is a candidate alert produced by threshold evaluation. It is
// not yet deduplicated or persisted.
type AlertIntent struct {
	Type     string
	Message  string
	Priority string
}

// Evaluate compares one reading against a profile and returns every
// violated threshold as an alert intent. The five checks are independent
// and unconditional, so a single reading can raise up to five intents.
// There is no hysteresis; deduplication happens downstream.
func Evaluate(r Reading, p Profile) []AlertIntent {
	var intents []AlertIntent

	if r.Temperature < p.MinTemperature || r.Temperature > p.MaxTemperature {
		intents = append(intents, AlertIntent{
			Type:     AlertTemperature,
			Message:  fmt.Sprintf("Temperature out of range: %s°C (Required: %s-%s°C)", num(r.Temperature), num(p.MinTemperature), num(p.MaxTemperature)),
			Priority: PriorityHigh,
		})
	}

	if r.Humidity < p.MinHumidity || r.Humidity > p.MaxHumidity {
		intents = append(intents, AlertIntent{
			Type:     AlertHumidity,
			Message:  fmt.Sprintf("Humidity out of range: %s%% (Required: %s-%s%%)", num(r.Humidity), num(p.MinHumidity), num(p.MaxHumidity)),
			Priority: PriorityMedium,
		})
	}

	if r.WaterLevel < p.MinWaterLevel {
		intents = append(intents, AlertIntent{
			Type:     AlertWater,
			Message:  fmt.Sprintf("Water level too low: %s%% (Minimum: %s%%)", num(r.WaterLevel), num(p.MinWaterLevel)),
			Priority: PriorityHigh,
		})
	}

	if minSoil := p.MinSoilMoistureOrDefault(); r.SoilMoisture < minSoil {
		intents = append(intents, AlertIntent{
			Type:     AlertSoilMoisture,
			Message:  fmt.Sprintf("Soil moisture too low: %s%% (Minimum: %s%%)", num(r.SoilMoisture), num(minSoil)),
			Priority: PriorityHigh,
		})
	}

	if r.LightHours < p.LightHours*0.5 {
		intents = append(intents, AlertIntent{
			Type:     AlertLight,
			Message:  fmt.Sprintf("Low light detected: %.1fh (Target: %sh)", r.LightHours, num(p.LightHours)),
			Priority: PriorityMedium,
		})
	}

	return intents
}

// num renders a float without trailing zeros (35, not 35.000000).
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
