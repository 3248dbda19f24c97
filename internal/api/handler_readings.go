package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantbox-backend/internal/model"
	"plantbox-backend/internal/pipeline"
)

// PostReading handles POST /api/readings. The device sends one sensor
// sample and receives the actuator commands to apply.
func (h *Handler) PostReading(c *gin.Context) {
	var in pipeline.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pipeline.Process(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reading": result.Reading,
		"commands": gin.H{
			"led":  result.Led,
			"pump": result.Pump,
		},
	})
}

// ListReadings handles GET /api/boxes/{box_id}/readings. Supports either a
// row limit (?limit=N, newest first) or a trailing period (?period=24h|7d|30d,
// oldest first).
func (h *Handler) ListReadings(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}
	if _, err := h.store.GetBox(c.Request.Context(), boxID); err != nil {
		abortWithError(c, err)
		return
	}

	if period := c.Query("period"); period != "" {
		h.listReadingsByPeriod(c, boxID, period)
		return
	}

	q := h.store.DB().Where("box_id = ?", boxID).Order("timestamp DESC")
	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		q = q.Limit(limit)
	}

	var readings []model.Reading
	if err := q.Find(&readings).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(readings), "data": readings})
}

var periods = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

func (h *Handler) listReadingsByPeriod(c *gin.Context, boxID int64, period string) {
	d, ok := periods[period]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period, use 24h, 7d or 30d"})
		return
	}

	now := time.Now().UTC()
	readings, err := h.store.ListReadings(c.Request.Context(), boxID, now.Add(-d), now)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(readings), "data": readings})
}

// LatestReading handles GET /api/boxes/{box_id}/readings/latest, the
// device-facing snapshot of the most recent sample.
func (h *Handler) LatestReading(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}
	if _, err := h.store.GetBox(c.Request.Context(), boxID); err != nil {
		abortWithError(c, err)
		return
	}

	var reading model.Reading
	err := h.store.DB().Where("box_id = ?", boxID).Order("timestamp DESC").First(&reading).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "no readings found for this box"})
		return
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

// GetReading handles GET /api/readings/{id}.
func (h *Handler) GetReading(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var reading model.Reading
	if err := h.store.DB().First(&reading, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "reading not found"})
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reading)
}

// DeleteReading handles DELETE /api/readings/{id}.
func (h *Handler) DeleteReading(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.store.DB().Delete(&model.Reading{}, id)
	if res.Error != nil {
		abortWithError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "reading not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// paramID parses a positive integer path parameter, writing a 400 on failure.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
