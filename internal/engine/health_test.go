package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreWindow_EmptyWindow(t *testing.T) {
	_, err := ScoreWindow(nil, testProfile())
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestScoreWindow_AllMetricsPerfect(t *testing.T) {
	h, err := ScoreWindow([]Reading{inRangeReading()}, testProfile())
	require.NoError(t, err)
	assert.Equal(t, 100.0, h.Score)
}

func TestScoreWindow_BoundaryValuesScoreFull(t *testing.T) {
	p := testProfile()
	// Averages exactly at the bounds still score 100 on each sub-metric.
	r := Reading{
		Temperature: p.MaxTemperature,
		Humidity:    p.MinHumidity,
		WaterLevel:  p.MinWaterLevel,
		LightHours:  p.LightHours,
	}
	h, err := ScoreWindow([]Reading{r}, p)
	require.NoError(t, err)
	assert.Equal(t, 100.0, h.Score)
}

func TestScoreWindow_WaterRamp(t *testing.T) {
	p := testProfile() // MinWaterLevel 50

	testCases := []struct {
		name       string
		waterLevel float64
		want       float64 // overall score with the other three sub-scores at 100
	}{
		{"empty tank scores zero water", 0, 75},    // 0.30*100 + 0.25*100 + 0.25*0 + 0.20*100
		{"half the minimum scores fifty", 25, 87.5}, // water sub-score 50 -> 0.25*50
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := inRangeReading()
			r.WaterLevel = tc.waterLevel
			h, err := ScoreWindow([]Reading{r}, p)
			require.NoError(t, err)
			assert.Equal(t, tc.want, h.Score)
		})
	}
}

func TestScoreWindow_TemperatureDeviationPenalty(t *testing.T) {
	p := testProfile() // MaxTemperature 28

	r := inRangeReading()
	r.Temperature = 30 // 2 degrees over -> sub-score 80

	h, err := ScoreWindow([]Reading{r}, p)
	require.NoError(t, err)
	// 0.30*100 + 0.25*80 + 0.25*100 + 0.20*100
	assert.Equal(t, 95.0, h.Score)
}

func TestScoreWindow_ExcessLightNotPenalized(t *testing.T) {
	r := inRangeReading()
	r.LightHours = 16 // double the target

	h, err := ScoreWindow([]Reading{r}, testProfile())
	require.NoError(t, err)
	assert.Equal(t, 100.0, h.Score)
}

func TestScoreWindow_OrderIndependent(t *testing.T) {
	readings := []Reading{
		{Temperature: 20, Humidity: 45, WaterLevel: 60, LightHours: 6},
		{Temperature: 31, Humidity: 70, WaterLevel: 20, LightHours: 2},
		{Temperature: 25, Humidity: 55, WaterLevel: 90, LightHours: 10},
	}
	reversed := []Reading{readings[2], readings[1], readings[0]}

	a, err := ScoreWindow(readings, testProfile())
	require.NoError(t, err)
	b, err := ScoreWindow(reversed, testProfile())
	require.NoError(t, err)

	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.AvgTemperature, b.AvgTemperature)
}

func TestScoreWindow_AveragesExposed(t *testing.T) {
	readings := []Reading{
		{Temperature: 20, Humidity: 40, WaterLevel: 50, LightHours: 6},
		{Temperature: 26, Humidity: 60, WaterLevel: 70, LightHours: 10},
	}
	h, err := ScoreWindow(readings, testProfile())
	require.NoError(t, err)

	assert.Equal(t, 23.0, h.AvgTemperature)
	assert.Equal(t, 50.0, h.AvgHumidity)
	assert.Equal(t, 60.0, h.AvgWaterLevel)
	assert.Equal(t, 8.0, h.AvgDailyLightHours)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 87.5, Round2(87.5))
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, -0.67, Round2(-2.0/3))
}
