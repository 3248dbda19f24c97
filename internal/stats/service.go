// Package stats aggregates reading windows into weekly statistics and
// history snapshots.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"plantbox-backend/internal/engine"
	"plantbox-backend/internal/model"
	"plantbox-backend/internal/store"
)

// window is the trailing period a statistic summarizes.
const window = 7 * 24 * time.Hour

// Service recomputes weekly statistics and reads history/evolution data.
type Service struct {
	store store.Store
	now   func() time.Time
}

// NewService creates the statistics service.
func NewService(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// SetNow overrides the clock. Used by tests.
func (s *Service) SetNow(now func() time.Time) {
	s.now = now
}

// Recompute aggregates the box's trailing 7-day reading window, upserts
// the Statistic row for the current ISO week and appends a weekly history
// snapshot. The history write is best-effort: a failure there never
// surfaces to the caller. With no readings in the window it returns
// (nil, nil) and writes nothing.
func (s *Service) Recompute(ctx context.Context, boxID int64) (*model.Statistic, error) {
	box, err := s.store.GetBox(ctx, boxID)
	if err != nil {
		return nil, err
	}
	if box.Plant == nil {
		return nil, fmt.Errorf("box %d has no plant assigned: %w", boxID, store.ErrNotFound)
	}

	now := s.now().UTC()
	readings, err := s.store.ListReadings(ctx, boxID, now.Add(-window), now)
	if err != nil {
		return nil, err
	}

	health, err := engine.ScoreWindow(toEngineReadings(readings), ProfileOf(*box.Plant))
	if err != nil {
		// Insufficient data is a null result, not a failure.
		return nil, nil
	}

	stat := model.Statistic{
		BoxID:           boxID,
		Week:            engine.ISOWeek(now),
		AvgTemperature:  engine.Round2(health.AvgTemperature),
		AvgHumidity:     engine.Round2(health.AvgHumidity),
		AvgLightHours:   engine.Round2(health.AvgDailyLightHours),
		AvgWaterLevel:   engine.Round2(health.AvgWaterLevel),
		EstimatedHealth: health.Score,
		GeneratedAt:     now,
	}
	if err := s.store.UpsertStatistic(ctx, &stat); err != nil {
		return nil, err
	}

	history := model.History{
		BoxID:           boxID,
		Kind:            model.HistoryWeekly,
		Week:            stat.Week,
		Temperature:     stat.AvgTemperature,
		Humidity:        stat.AvgHumidity,
		WaterLevel:      stat.AvgWaterLevel,
		LightHours:      stat.AvgLightHours,
		EstimatedHealth: stat.EstimatedHealth,
		Date:            now,
	}
	if err := s.store.InsertHistory(ctx, &history); err != nil {
		log.Printf("saving weekly history for box %d: %v", boxID, err)
	}

	return &stat, nil
}

// Evolution compares the earliest and latest history snapshots of a box.
type Evolution struct {
	BoxID  int64         `json:"boxId"`
	First  model.History `json:"first"`
	Last   model.History `json:"last"`
	Deltas Deltas        `json:"deltas"`
	Trend  string        `json:"trend"` // improving|deteriorating
}

// Deltas holds per-metric differences, last minus first, rounded to 2
// decimal places.
type Deltas struct {
	EstimatedHealth float64 `json:"estimatedHealth"`
	Temperature     float64 `json:"temperature"`
	Humidity        float64 `json:"humidity"`
	LightHours      float64 `json:"lightHours"`
	WaterLevel      float64 `json:"waterLevel"`
}

// Evolution reports how the box's condition moved between its first and
// last history snapshots. With fewer than one snapshot it returns
// (nil, nil).
func (s *Service) Evolution(ctx context.Context, boxID int64) (*Evolution, error) {
	if _, err := s.store.GetBox(ctx, boxID); err != nil {
		return nil, err
	}

	first, err := s.store.FirstHistory(ctx, boxID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	last, err := s.store.LastHistory(ctx, boxID)
	if err != nil {
		return nil, err
	}

	healthDelta := engine.Round2(last.EstimatedHealth - first.EstimatedHealth)
	trend := "improving"
	if healthDelta < 0 {
		trend = "deteriorating"
	}

	return &Evolution{
		BoxID: boxID,
		First: first,
		Last:  last,
		Deltas: Deltas{
			EstimatedHealth: healthDelta,
			Temperature:     engine.Round2(last.Temperature - first.Temperature),
			Humidity:        engine.Round2(last.Humidity - first.Humidity),
			LightHours:      engine.Round2(last.LightHours - first.LightHours),
			WaterLevel:      engine.Round2(last.WaterLevel - first.WaterLevel),
		},
		Trend: trend,
	}, nil
}

// ProfileOf converts a persisted plant into the engine's profile snapshot.
func ProfileOf(p model.Plant) engine.Profile {
	return engine.Profile{
		MinTemperature:    p.MinTemperature,
		MaxTemperature:    p.MaxTemperature,
		MinHumidity:       p.MinHumidity,
		MaxHumidity:       p.MaxHumidity,
		MinWaterLevel:     p.MinWaterLevel,
		MinSoilMoisture:   p.MinSoilMoisture,
		LightHours:        p.LightHours,
		WateringFrequency: p.WateringFrequency,
	}
}

func toEngineReadings(readings []model.Reading) []engine.Reading {
	out := make([]engine.Reading, len(readings))
	for i, r := range readings {
		out[i] = engine.Reading{
			Temperature:  r.Temperature,
			Humidity:     r.Humidity,
			SoilMoisture: r.SoilMoisture,
			WaterLevel:   r.WaterLevel,
			LightHours:   r.LightHours,
		}
	}
	return out
}
