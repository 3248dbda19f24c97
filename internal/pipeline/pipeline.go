// Package pipeline runs the per-reading control flow: persist the sample,
// raise alerts, derive actuator commands and refresh statistics.
package pipeline

import (
	"context"
	"log"
	"sync"
	"time"

	"plantbox-backend/internal/alerting"
	"plantbox-backend/internal/engine"
	"plantbox-backend/internal/model"
	"plantbox-backend/internal/stats"
	"plantbox-backend/internal/store"
)

// Input is one incoming sensor sample from a device.
type Input struct {
	BoxID        int64   `json:"boxId" binding:"required"`
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	SoilMoisture float64 `json:"soilMoisture"`
	WaterLevel   float64 `json:"waterLevel"`
	LightHours   float64 `json:"lightHours"`
}

// Result is returned to the device: the stored reading plus the actuator
// commands it should apply.
type Result struct {
	Reading model.Reading `json:"reading"`
	Led     bool          `json:"led"`
	Pump    bool          `json:"pump"`
}

// Service orchestrates the reading pipeline. Readings for the same box are
// serialized with a per-box lock so the watering counter and the state
// upsert stay race-free; different boxes proceed in parallel.
type Service struct {
	store  store.Store
	alerts *alerting.Service
	stats  *stats.Service
	policy engine.Policy
	now    func() time.Time

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewService creates the pipeline service.
func NewService(s store.Store, alerts *alerting.Service, statsSvc *stats.Service, policy engine.Policy) *Service {
	return &Service{
		store:  s,
		alerts: alerts,
		stats:  statsSvc,
		policy: policy,
		now:    time.Now,
		locks:  make(map[int64]*sync.Mutex),
	}
}

// SetNow overrides the clock. Used by tests.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

func (s *Service) boxLock(boxID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[boxID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[boxID] = l
	}
	return l
}

// Process runs the full pipeline for one reading. Persisting the reading
// and deriving the actuator command are mandatory and abort on failure;
// alert submission and statistics recomputation are best-effort side
// effects that only get logged.
func (s *Service) Process(ctx context.Context, in Input) (*Result, error) {
	lock := s.boxLock(in.BoxID)
	lock.Lock()
	defer lock.Unlock()

	box, err := s.store.GetBox(ctx, in.BoxID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reading := model.Reading{
		BoxID:        in.BoxID,
		Temperature:  in.Temperature,
		Humidity:     in.Humidity,
		SoilMoisture: in.SoilMoisture,
		WaterLevel:   in.WaterLevel,
		LightHours:   in.LightHours,
		Timestamp:    now.UTC(),
	}
	if err := s.store.SaveReading(ctx, &reading); err != nil {
		return nil, err
	}

	// A box without a plant profile gets its reading stored but no
	// evaluation: no alerts, no state change, both actuators off.
	if box.Plant == nil {
		return &Result{Reading: reading}, nil
	}
	profile := stats.ProfileOf(*box.Plant)

	sample := engine.Reading{
		Temperature:  in.Temperature,
		Humidity:     in.Humidity,
		SoilMoisture: in.SoilMoisture,
		WaterLevel:   in.WaterLevel,
		LightHours:   in.LightHours,
	}
	for _, intent := range engine.Evaluate(sample, profile) {
		if _, _, err := s.alerts.Submit(ctx, in.BoxID, intent); err != nil {
			log.Printf("submitting %s alert for box %d: %v", intent.Type, in.BoxID, err)
		}
	}

	avgLight, err := s.avgDailyLightHours(ctx, in.BoxID, now)
	if err != nil {
		log.Printf("computing daily light hours for box %d: %v", in.BoxID, err)
	}

	decision := s.policy.Decide(stateOf(box), profile, now, avgLight)
	if err := s.store.UpsertBoxState(ctx, in.BoxID, decision.State); err != nil {
		return nil, err
	}

	if _, err := s.stats.Recompute(ctx, in.BoxID); err != nil {
		log.Printf("recomputing statistics for box %d: %v", in.BoxID, err)
	}

	return &Result{Reading: reading, Led: decision.Led, Pump: decision.Pump}, nil
}

// avgDailyLightHours averages the light-hour readings taken since local
// midnight, including the one just stored.
func (s *Service) avgDailyLightHours(ctx context.Context, boxID int64, now time.Time) (float64, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	readings, err := s.store.ListReadings(ctx, boxID, midnight.UTC(), now.UTC())
	if err != nil {
		return 0, err
	}
	if len(readings) == 0 {
		return 0, nil
	}
	var sum float64
	for _, r := range readings {
		sum += r.LightHours
	}
	return sum / float64(len(readings)), nil
}

func stateOf(box model.Box) engine.ActuatorState {
	return engine.ActuatorState{
		LedStatus:        box.LedStatus,
		PumpStatus:       box.PumpStatus,
		ManualLed:        box.ManualLed,
		ManualPump:       box.ManualPump,
		WateringCount:    box.WateringCount,
		LastWateringDate: box.LastWateringDate,
	}
}
