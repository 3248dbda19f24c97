package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"plantbox-backend/config"
	"plantbox-backend/internal/alerting"
	"plantbox-backend/internal/mw"
	"plantbox-backend/internal/pipeline"
	"plantbox-backend/internal/stats"
	"plantbox-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.ServerConfig, s store.Store, p *pipeline.Service, a *alerting.Service, st *stats.Service, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, p, a, st, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Device ingest: one reading in, actuator commands out.
		api.POST("/readings", handler.PostReading)
		api.GET("/readings/:id", handler.GetReading)
		api.DELETE("/readings/:id", handler.DeleteReading)

		// Boxes
		api.GET("/boxes", caching, handler.ListBoxes)
		api.POST("/boxes", handler.CreateBox)
		api.GET("/boxes/:box_id", handler.GetBox)
		api.PATCH("/boxes/:box_id", handler.UpdateBox)
		api.DELETE("/boxes/:box_id", handler.DeleteBox)
		api.GET("/boxes/:box_id/readings", handler.ListReadings)
		api.GET("/boxes/:box_id/readings/latest", handler.LatestReading)
		api.GET("/boxes/:box_id/actuators", handler.GetActuators)
		api.PATCH("/boxes/:box_id/actuators", handler.UpdateActuators)

		// Plants
		api.GET("/plants", caching, handler.ListPlants)
		api.POST("/plants", handler.CreatePlant)
		api.GET("/plants/:id", handler.GetPlant)
		api.PATCH("/plants/:id", handler.UpdatePlant)
		api.DELETE("/plants/:id", handler.DeletePlant)

		// Guides
		api.GET("/guides", caching, handler.ListGuides)
		api.POST("/guides", handler.CreateGuide)
		api.GET("/guides/:id", handler.GetGuide)
		api.PATCH("/guides/:id", handler.UpdateGuide)
		api.DELETE("/guides/:id", handler.DeleteGuide)

		// Alerts
		api.GET("/boxes/:box_id/alerts", handler.ListAlerts)
		api.GET("/boxes/:box_id/alerts/active", handler.ListActiveAlerts)
		api.PATCH("/boxes/:box_id/alerts/resolve", handler.ResolveAllAlerts)
		api.PATCH("/alerts/:id/resolve", handler.ResolveAlert)
		api.DELETE("/alerts/:id", handler.DeleteAlert)

		// Statistics and history
		api.POST("/boxes/:box_id/statistics/recompute", handler.RecomputeStatistics)
		api.GET("/boxes/:box_id/statistics", caching, handler.ListStatistics)
		api.GET("/boxes/:box_id/statistics/latest", handler.LatestStatistic)
		api.GET("/boxes/:box_id/history", caching, handler.ListHistory)
		api.GET("/boxes/:box_id/history/evolution", handler.GetEvolution)

		// Auth by box code
		api.POST("/auth/validate", handler.ValidateBoxCode)

		// Push subscriptions
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
