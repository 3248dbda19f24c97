package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"plantbox-backend/config"
	"plantbox-backend/internal/alerting"
	"plantbox-backend/internal/api"
	"plantbox-backend/internal/db"
	"plantbox-backend/internal/engine"
	"plantbox-backend/internal/pipeline"
	"plantbox-backend/internal/stats"
	"plantbox-backend/internal/store"
)

// TestBoxCareLifecycle walks the full care cycle of one box over the HTTP
// API: register a plant and a box, ingest readings, watch alerts and
// actuator commands react, then resolve the alerts.
func TestBoxCareLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 1. Setup an in-memory SQLite database for testing.
	testDB, err := gorm.Open(sqlite.Open("file:lifecycle?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(testDB))

	// 2. Wire the services the way main does, manual control policy.
	gormStore := store.NewGormStore(testDB)
	alertSvc := alerting.NewService(gormStore, nil)
	statsSvc := stats.NewService(gormStore)
	pipelineSvc := pipeline.NewService(gormStore, alertSvc, statsSvc, engine.PolicyByName("manual"))

	serverCfg := &config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	}
	router := api.NewRouter(serverCfg, gormStore, pipelineSvc, alertSvc, statsSvc, nil)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]any {
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return out
	}

	// 3. Register the plant profile.
	w := do(http.MethodPost, "/api/plants", map[string]any{
		"name":              "Basil",
		"minTemperature":    18,
		"maxTemperature":    28,
		"minHumidity":       40,
		"maxHumidity":       60,
		"minWaterLevel":     50,
		"lightHours":        8,
		"wateringFrequency": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	plantID := int64(decode(w)["id"].(float64))

	// 4. Register the box and bind it to the plant.
	w = do(http.MethodPost, "/api/boxes", map[string]any{
		"code":    "grn-001",
		"name":    "Greenhouse 1",
		"plantId": plantID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	box := decode(w)
	boxID := int64(box["id"].(float64))
	assert.Equal(t, "GRN-001", box["code"], "codes are normalized to upper case")

	// Duplicate codes are rejected.
	w = do(http.MethodPost, "/api/boxes", map[string]any{"code": "GRN-001", "name": "Clone"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 5. A device validates the printed code.
	w = do(http.MethodPost, "/api/auth/validate", map[string]any{"code": "grn-001"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	validated := decode(w)
	assert.Equal(t, true, validated["valid"])
	assert.Equal(t, float64(boxID), validated["boxId"])

	// 6. A healthy reading: stored, no alerts, actuators stay off.
	w = do(http.MethodPost, "/api/readings", map[string]any{
		"boxId":        boxID,
		"temperature":  23,
		"humidity":     50,
		"soilMoisture": 45,
		"waterLevel":   80,
		"lightHours":   8,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	commands := decode(w)["commands"].(map[string]any)
	assert.Equal(t, false, commands["led"])
	assert.Equal(t, false, commands["pump"])

	w = do(http.MethodGet, fmt.Sprintf("/api/boxes/%d/alerts/active", boxID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(w)["total"])

	// 7. A hot, dry reading raises alerts.
	w = do(http.MethodPost, "/api/readings", map[string]any{
		"boxId":        boxID,
		"temperature":  35,
		"humidity":     50,
		"soilMoisture": 45,
		"waterLevel":   10,
		"lightHours":   8,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(http.MethodGet, fmt.Sprintf("/api/boxes/%d/alerts/active", boxID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	active := decode(w)
	require.Equal(t, float64(2), active["total"], w.Body.String())
	first := active["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "high", first["priority"], "high priority alerts sort first")

	// The same violation again does not duplicate.
	w = do(http.MethodPost, "/api/readings", map[string]any{
		"boxId":        boxID,
		"temperature":  35,
		"humidity":     50,
		"soilMoisture": 45,
		"waterLevel":   10,
		"lightHours":   8,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = do(http.MethodGet, fmt.Sprintf("/api/boxes/%d/alerts/active", boxID), nil)
	assert.Equal(t, float64(2), decode(w)["total"])

	// 8. The operator turns the pump on; the next reading mirrors it and
	// counts the watering.
	w = do(http.MethodPatch, fmt.Sprintf("/api/boxes/%d/actuators", boxID), map[string]any{
		"manualPump": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(http.MethodPost, "/api/readings", map[string]any{
		"boxId":        boxID,
		"temperature":  23,
		"humidity":     50,
		"soilMoisture": 45,
		"waterLevel":   80,
		"lightHours":   8,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	commands = decode(w)["commands"].(map[string]any)
	assert.Equal(t, true, commands["pump"])

	w = do(http.MethodGet, fmt.Sprintf("/api/boxes/%d/actuators", boxID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	actuators := decode(w)
	assert.Equal(t, true, actuators["pump"])
	assert.Equal(t, float64(1), actuators["wateringCount"])
	assert.NotNil(t, actuators["lastWateringDate"])

	// 9. Statistics exist after the ingested readings.
	w = do(http.MethodPost, fmt.Sprintf("/api/boxes/%d/statistics/recompute", boxID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stat, ok := decode(w)["data"].(map[string]any)
	require.True(t, ok, w.Body.String())
	assert.NotNil(t, stat["estimatedHealth"])

	w = do(http.MethodGet, fmt.Sprintf("/api/boxes/%d/statistics/latest", boxID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 10. Resolve everything and confirm the slate is clean but the
	// history remains queryable.
	w = do(http.MethodPatch, fmt.Sprintf("/api/boxes/%d/alerts/resolve", boxID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(w)["resolved"])

	w = do(http.MethodGet, fmt.Sprintf("/api/boxes/%d/alerts/active", boxID), nil)
	assert.Equal(t, float64(0), decode(w)["total"])

	w = do(http.MethodGet, fmt.Sprintf("/api/boxes/%d/alerts", boxID), nil)
	assert.Equal(t, float64(2), decode(w)["total"])

	// 11. Readings listing, newest first with a limit.
	w = do(http.MethodGet, fmt.Sprintf("/api/boxes/%d/readings?limit=2", boxID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(w)["total"])
}

// TestSubscriptionEndpoints covers push subscription registration and the
// VAPID key endpoint behavior without configured keys.
func TestSubscriptionEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testDB, err := gorm.Open(sqlite.Open("file:subscriptions?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()
	require.NoError(t, db.Migrate(testDB))

	gormStore := store.NewGormStore(testDB)
	alertSvc := alerting.NewService(gormStore, nil)
	statsSvc := stats.NewService(gormStore)
	pipelineSvc := pipeline.NewService(gormStore, alertSvc, statsSvc, engine.ManualPolicy{})

	serverCfg := &config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000, CacheTTLSeconds: 1}
	router := api.NewRouter(serverCfg, gormStore, pipelineSvc, alertSvc, statsSvc, nil)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodPost, "/api/boxes", map[string]any{"code": "SUB-01", "name": "Window box"})
	require.Equal(t, http.StatusCreated, w.Code)
	var box map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &box))
	boxID := int64(box["id"].(float64))

	sub := map[string]any{
		"endpoint": "https://push.example/abc",
		"p256dh":   "key",
		"auth":     "secret",
		"boxId":    boxID,
	}
	w = do(http.MethodPut, "/api/subscriptions", sub)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Re-registering the same endpoint is idempotent.
	w = do(http.MethodPut, "/api/subscriptions", sub)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Unknown box is rejected.
	w = do(http.MethodPut, "/api/subscriptions", map[string]any{
		"endpoint": "https://push.example/xyz", "p256dh": "key", "auth": "secret", "boxId": 999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// No VAPID keys configured in this test.
	w = do(http.MethodGet, "/api/vapid_public_key", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(http.MethodDelete, "/api/subscriptions", map[string]any{"endpoint": "https://push.example/abc"})
	assert.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
}
