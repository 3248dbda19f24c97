package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"plantbox-backend/internal/alerting"
	"plantbox-backend/internal/pipeline"
	"plantbox-backend/internal/stats"
	"plantbox-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	pipeline *pipeline.Service
	alerts   *alerting.Service
	stats    *stats.Service
	webpush  *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, p *pipeline.Service, a *alerting.Service, st *stats.Service, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:    s,
		pipeline: p,
		alerts:   a,
		stats:    st,
		webpush:  webpushOptions,
	}
}

// abortWithError translates store sentinel errors into HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
