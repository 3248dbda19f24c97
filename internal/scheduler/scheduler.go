// Package scheduler runs the background daily-snapshot loop. Once per
// configured interval it records a "daily" history row per box from the
// last 24 hours of readings.
package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"plantbox-backend/config"
	"plantbox-backend/internal/engine"
	"plantbox-backend/internal/model"
	"plantbox-backend/internal/stats"
	"plantbox-backend/internal/store"
)

// Service periodically snapshots every box's trailing day.
type Service struct {
	cfg   *config.Config
	store store.Store
	loc   *time.Location
	now   func() time.Time
}

// NewService creates and initializes the snapshot scheduler.
func NewService(cfg *config.Config, s store.Store) *Service {
	loc := time.UTC
	if cfg.Snapshot.Timezone != "" {
		l, err := time.LoadLocation(cfg.Snapshot.Timezone)
		if err != nil {
			log.Printf("Warning: invalid snapshot timezone %q: %v. Using UTC.", cfg.Snapshot.Timezone, err)
		} else {
			loc = l
		}
	}
	return &Service{cfg: cfg, store: s, loc: loc, now: time.Now}
}

// Run starts the snapshot loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Snapshot.Enabled {
		log.Println("Snapshot scheduler is disabled. Not starting.")
		return
	}
	log.Println("Starting snapshot scheduler...")

	timer := time.NewTimer(s.cfg.Snapshot.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Snapshot scheduler shutting down.")
			return
		case <-timer.C:
			s.SnapshotOnce(ctx)
			timer.Reset(s.cfg.Snapshot.Interval)
		}
	}
}

// SnapshotOnce records one daily history row for every box that has a
// plant and readings in the last 24 hours. Each box is best-effort: one
// failure is logged and the loop moves on.
func (s *Service) SnapshotOnce(ctx context.Context) {
	ids, err := s.store.ListBoxIDs(ctx)
	if err != nil {
		log.Printf("listing boxes for daily snapshot: %v", err)
		return
	}

	now := s.now().In(s.loc)
	for _, id := range ids {
		if err := s.snapshotBox(ctx, id, now); err != nil {
			log.Printf("daily snapshot for box %d: %v", id, err)
		}
	}
}

func (s *Service) snapshotBox(ctx context.Context, boxID int64, now time.Time) error {
	box, err := s.store.GetBox(ctx, boxID)
	if err != nil {
		return err
	}
	if box.Plant == nil {
		return nil
	}

	readings, err := s.store.ListReadings(ctx, boxID, now.Add(-24*time.Hour).UTC(), now.UTC())
	if err != nil {
		return err
	}

	health, err := engine.ScoreWindow(toEngineReadings(readings), stats.ProfileOf(*box.Plant))
	if errors.Is(err, engine.ErrInsufficientData) {
		return nil
	}
	if err != nil {
		return err
	}

	return s.store.InsertHistory(ctx, &model.History{
		BoxID:           boxID,
		Kind:            model.HistoryDaily,
		Week:            engine.ISOWeek(now),
		Temperature:     engine.Round2(health.AvgTemperature),
		Humidity:        engine.Round2(health.AvgHumidity),
		WaterLevel:      engine.Round2(health.AvgWaterLevel),
		LightHours:      engine.Round2(health.AvgDailyLightHours),
		EstimatedHealth: health.Score,
		Date:            now.UTC(),
	})
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
