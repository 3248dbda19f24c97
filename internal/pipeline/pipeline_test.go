package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"plantbox-backend/internal/alerting"
	"plantbox-backend/internal/db"
	"plantbox-backend/internal/engine"
	"plantbox-backend/internal/model"
	"plantbox-backend/internal/stats"
	"plantbox-backend/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return store.NewGormStore(gdb)
}

func newTestService(t *testing.T, s store.Store, policy engine.Policy) *Service {
	statsSvc := stats.NewService(s)
	alertSvc := alerting.NewService(s, nil)
	return NewService(s, alertSvc, statsSvc, policy)
}

func seedBox(t *testing.T, s store.Store, withPlant bool) model.Box {
	box := model.Box{Code: "GRN001", Name: "Greenhouse 1"}
	if withPlant {
		plant := model.Plant{
			Name:              "Basil",
			MinTemperature:    18,
			MaxTemperature:    28,
			MinHumidity:       40,
			MaxHumidity:       60,
			MinWaterLevel:     50,
			LightHours:        8,
			WateringFrequency: 2,
		}
		require.NoError(t, s.DB().Create(&plant).Error)
		box.PlantID = &plant.ID
	}
	require.NoError(t, s.DB().Create(&box).Error)
	return box
}

func healthyInput(boxID int64) Input {
	return Input{
		BoxID:        boxID,
		Temperature:  23,
		Humidity:     50,
		SoilMoisture: 45,
		WaterLevel:   80,
		LightHours:   8,
	}
}

func TestProcess_StoresReadingAndReturnsCommands(t *testing.T) {
	s := newTestStore(t)
	box := seedBox(t, s, true)
	svc := newTestService(t, s, engine.ManualPolicy{})

	res, err := svc.Process(context.Background(), healthyInput(box.ID))
	require.NoError(t, err)

	assert.NotZero(t, res.Reading.ID)
	assert.Equal(t, box.ID, res.Reading.BoxID)
	assert.False(t, res.Led)
	assert.False(t, res.Pump)

	var count int64
	s.DB().Model(&model.Reading{}).Where("box_id = ?", box.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProcess_UnknownBox(t *testing.T) {
	s := newTestStore(t)
	svc := newTestService(t, s, engine.ManualPolicy{})

	_, err := svc.Process(context.Background(), healthyInput(404))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProcess_BoxWithoutPlant(t *testing.T) {
	s := newTestStore(t)
	box := seedBox(t, s, false)
	box.ManualLed = true
	require.NoError(t, s.DB().Save(&box).Error)

	svc := newTestService(t, s, engine.ManualPolicy{})
	res, err := svc.Process(context.Background(), Input{BoxID: box.ID, Temperature: 99})
	require.NoError(t, err)

	// The reading is stored but nothing is evaluated.
	assert.NotZero(t, res.Reading.ID)
	assert.False(t, res.Led)
	assert.False(t, res.Pump)

	var alerts int64
	s.DB().Model(&model.Alert{}).Count(&alerts)
	assert.Zero(t, alerts)

	fresh, err := s.GetBox(context.Background(), box.ID)
	require.NoError(t, err)
	assert.False(t, fresh.LedStatus, "actuator state must stay untouched")
}

func TestProcess_RaisesAndDeduplicatesAlerts(t *testing.T) {
	s := newTestStore(t)
	box := seedBox(t, s, true)
	svc := newTestService(t, s, engine.ManualPolicy{})

	in := healthyInput(box.ID)
	in.Temperature = 35

	_, err := svc.Process(context.Background(), in)
	require.NoError(t, err)
	_, err = svc.Process(context.Background(), in)
	require.NoError(t, err)

	var alerts []model.Alert
	require.NoError(t, s.DB().Where("box_id = ?", box.ID).Find(&alerts).Error)
	require.Len(t, alerts, 1, "identical violation must not duplicate")
	assert.Equal(t, engine.AlertTemperature, alerts[0].Type)
	assert.Equal(t, "Temperature out of range: 35°C (Required: 18-28°C)", alerts[0].Message)
}

func TestProcess_ManualPumpTransitionCountsWatering(t *testing.T) {
	s := newTestStore(t)
	box := seedBox(t, s, true)
	box.ManualPump = true
	require.NoError(t, s.DB().Save(&box).Error)

	svc := newTestService(t, s, engine.ManualPolicy{})
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	svc.SetNow(func() time.Time { return now })

	res, err := svc.Process(context.Background(), healthyInput(box.ID))
	require.NoError(t, err)
	assert.True(t, res.Pump)

	fresh, err := s.GetBox(context.Background(), box.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.WateringCount)
	require.NotNil(t, fresh.LastWateringDate)

	// Pump stays on: no new off-to-on transition, counter holds.
	_, err = svc.Process(context.Background(), healthyInput(box.ID))
	require.NoError(t, err)
	fresh, err = s.GetBox(context.Background(), box.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.WateringCount)
}

func TestProcess_AutomaticPolicyRespectsDailyCap(t *testing.T) {
	s := newTestStore(t)
	box := seedBox(t, s, true) // wateringFrequency 2
	svc := newTestService(t, s, engine.AutomaticPolicy{})

	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	svc.SetNow(func() time.Time { return now })

	for i := 0; i < 2; i++ {
		res, err := svc.Process(context.Background(), healthyInput(box.ID))
		require.NoError(t, err)
		assert.True(t, res.Pump, "watering %d is under the daily cap", i+1)
		now = now.Add(time.Hour)
	}

	res, err := svc.Process(context.Background(), healthyInput(box.ID))
	require.NoError(t, err)
	assert.False(t, res.Pump, "cap reached for the day")

	fresh, err := s.GetBox(context.Background(), box.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.WateringCount)
}

func TestProcess_CounterResetsNextDay(t *testing.T) {
	s := newTestStore(t)
	box := seedBox(t, s, true)
	svc := newTestService(t, s, engine.AutomaticPolicy{})

	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	svc.SetNow(func() time.Time { return now })

	for i := 0; i < 3; i++ {
		_, err := svc.Process(context.Background(), healthyInput(box.ID))
		require.NoError(t, err)
		now = now.Add(time.Hour)
	}
	fresh, err := s.GetBox(context.Background(), box.ID)
	require.NoError(t, err)
	require.Equal(t, 2, fresh.WateringCount)

	// Next calendar day: the counter resets and watering resumes.
	now = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	res, err := svc.Process(context.Background(), healthyInput(box.ID))
	require.NoError(t, err)
	assert.True(t, res.Pump)

	fresh, err = s.GetBox(context.Background(), box.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.WateringCount)
}

func TestProcess_AutomaticLedFollowsDailyLight(t *testing.T) {
	s := newTestStore(t)
	box := seedBox(t, s, true) // target 8h
	svc := newTestService(t, s, engine.AutomaticPolicy{})

	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	svc.SetNow(func() time.Time { return now })

	in := healthyInput(box.ID)
	in.LightHours = 3
	res, err := svc.Process(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, res.Led, "below target light turns the LED on")

	now = now.Add(time.Hour)
	in.LightHours = 13 // average becomes (3+13)/2 = 8, at target
	res, err = svc.Process(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, res.Led, "at-target average turns the LED off")
}

func TestProcess_RecomputesStatistics(t *testing.T) {
	s := newTestStore(t)
	box := seedBox(t, s, true)
	svc := newTestService(t, s, engine.ManualPolicy{})

	_, err := svc.Process(context.Background(), healthyInput(box.ID))
	require.NoError(t, err)

	var count int64
	s.DB().Model(&model.Statistic{}).Where("box_id = ?", box.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestProcess_ConcurrentReadingsSameBox(t *testing.T) {
	s := newTestStore(t)
	box := seedBox(t, s, true)
	svc := newTestService(t, s, engine.AutomaticPolicy{})

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Process(context.Background(), healthyInput(box.ID))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var readings int64
	s.DB().Model(&model.Reading{}).Where("box_id = ?", box.ID).Count(&readings)
	assert.Equal(t, int64(n), readings)

	fresh, err := s.GetBox(context.Background(), box.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.WateringCount, "serialized processing keeps the cap exact")
}
