package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantbox-backend/internal/model"
)

// RecomputeStatistics handles POST /api/boxes/{box_id}/statistics/recompute.
// With no readings in the trailing window it returns a null payload and
// writes nothing.
func (h *Handler) RecomputeStatistics(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}

	stat, err := h.stats.Recompute(c.Request.Context(), boxID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if stat == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no sufficient readings to calculate statistics", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stat})
}

// ListStatistics handles GET /api/boxes/{box_id}/statistics.
func (h *Handler) ListStatistics(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}
	if _, err := h.store.GetBox(c.Request.Context(), boxID); err != nil {
		abortWithError(c, err)
		return
	}

	var statistics []model.Statistic
	err := h.store.DB().Where("box_id = ?", boxID).Order("generated_at DESC").Find(&statistics).Error
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(statistics), "data": statistics})
}

// LatestStatistic handles GET /api/boxes/{box_id}/statistics/latest.
func (h *Handler) LatestStatistic(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}
	if _, err := h.store.GetBox(c.Request.Context(), boxID); err != nil {
		abortWithError(c, err)
		return
	}

	var stat model.Statistic
	err := h.store.DB().Where("box_id = ?", boxID).Order("generated_at DESC").First(&stat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"message": "no statistics available for this box", "data": nil})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stat})
}

// ListHistory handles GET /api/boxes/{box_id}/history, optionally filtered
// by ?kind=daily|weekly, newest first.
func (h *Handler) ListHistory(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}
	if _, err := h.store.GetBox(c.Request.Context(), boxID); err != nil {
		abortWithError(c, err)
		return
	}

	q := h.store.DB().Where("box_id = ?", boxID).Order("date DESC")
	switch kind := c.Query("kind"); kind {
	case "":
	case model.HistoryDaily, model.HistoryWeekly:
		q = q.Where("kind = ?", kind)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid kind, use daily or weekly"})
		return
	}

	var history []model.History
	if err := q.Find(&history).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(history), "data": history})
}

// GetEvolution handles GET /api/boxes/{box_id}/history/evolution: the
// per-metric deltas between the box's first and last history snapshots.
func (h *Handler) GetEvolution(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}

	evolution, err := h.stats.Evolution(c.Request.Context(), boxID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if evolution == nil {
		c.JSON(http.StatusOK, gin.H{"message": "not enough data to calculate evolution", "data": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": evolution})
}
