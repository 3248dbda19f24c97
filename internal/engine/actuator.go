package engine

import "time"

// ActuatorState is the mutable control state of a box: the last commands
// issued, the operator override flags and the daily watering counter.
type ActuatorState struct {
	LedStatus        bool
	PumpStatus       bool
	ManualLed        bool
	ManualPump       bool
	WateringCount    int
	LastWateringDate *time.Time
}

// Decision is the outcome of one actuator evaluation: the commands sent to
// the device and the state to persist.
type Decision struct {
	Led   bool
	Pump  bool
	State ActuatorState
}

// Policy derives actuator commands from the current state, the plant
// profile and the measured conditions. Two policies coexist (manual
// override vs autonomous control); the deployment picks one via config.
type Policy interface {
	Decide(state ActuatorState, p Profile, now time.Time, avgDailyLightHours float64) Decision
}

// PolicyByName maps a config value to a policy. Unknown names fall back to
// the manual policy.
func PolicyByName(name string) Policy {
	if name == "automatic" {
		return AutomaticPolicy{}
	}
	return ManualPolicy{}
}

// ManualPolicy mirrors the stored operator override flags verbatim. The
// policy makes no autonomous decision; it only maintains the watering
// counter when the pump transitions from off to on.
type ManualPolicy struct{}

func (ManualPolicy) Decide(state ActuatorState, _ Profile, now time.Time, _ float64) Decision {
	resetDailyCounter(&state, now)

	led := state.ManualLed
	pump := state.ManualPump

	if pump && !state.PumpStatus {
		state.WateringCount++
		t := now
		state.LastWateringDate = &t
	}

	state.LedStatus = led
	state.PumpStatus = pump
	return Decision{Led: led, Pump: pump, State: state}
}

// AutomaticPolicy turns the LED on while the measured average daily light
// is below the profile target, and waters while the daily counter is under
// the profile's watering frequency.
type AutomaticPolicy struct{}

func (AutomaticPolicy) Decide(state ActuatorState, p Profile, now time.Time, avgDailyLightHours float64) Decision {
	resetDailyCounter(&state, now)

	led := avgDailyLightHours < p.LightHours

	var pump bool
	if state.WateringCount < p.WateringFrequency {
		pump = true
		state.WateringCount++
		t := now
		state.LastWateringDate = &t
	}

	state.LedStatus = led
	state.PumpStatus = pump
	return Decision{Led: led, Pump: pump, State: state}
}

// resetDailyCounter zeroes the watering counter once the calendar date has
// moved past the last watering date. Detected by date comparison, not a
// scheduled job, so it is idempotent within a day.
func resetDailyCounter(state *ActuatorState, now time.Time) {
	if state.LastWateringDate == nil {
		return
	}
	last := state.LastWateringDate.In(now.Location())
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, now.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if lastDay.Before(today) {
		state.WateringCount = 0
	}
}
