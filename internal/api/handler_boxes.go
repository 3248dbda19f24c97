package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantbox-backend/internal/boxcode"
	"plantbox-backend/internal/model"
)

type createBoxRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	PlantID *int64 `json:"plantId"`
}

// CreateBox handles POST /api/boxes.
func (h *Handler) CreateBox(c *gin.Context) {
	var req createBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := boxcode.Parse(req.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := h.store.DB()
	if req.PlantID != nil {
		var plant model.Plant
		if err := db.First(&plant, *req.PlantID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "plant not found"})
			return
		}
	}

	var existing model.Box
	if err := db.First(&existing, "code = ?", code).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "box with this code already exists"})
		return
	}

	box := model.Box{Code: code, Name: req.Name, PlantID: req.PlantID}
	if err := db.Create(&box).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, box)
}

// ListBoxes handles GET /api/boxes.
func (h *Handler) ListBoxes(c *gin.Context) {
	var boxes []model.Box
	if err := h.store.DB().Preload("Plant").Order("created_at ASC").Find(&boxes).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(boxes), "data": boxes})
}

// GetBox handles GET /api/boxes/{box_id}.
func (h *Handler) GetBox(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}

	box, err := h.store.GetBox(c.Request.Context(), boxID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, box)
}

type updateBoxRequest struct {
	Name    *string `json:"name"`
	PlantID *int64  `json:"plantId"`
}

// UpdateBox handles PATCH /api/boxes/{box_id}. Assigning a different plant
// resets the actuator state: the counters and commands belong to the old
// plant's care cycle.
func (h *Handler) UpdateBox(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}
	var req updateBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := h.store.DB()
	var box model.Box
	if err := db.First(&box, boxID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "box not found"})
			return
		}
		abortWithError(c, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.PlantID != nil {
		var plant model.Plant
		if err := db.First(&plant, *req.PlantID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "plant not found"})
			return
		}
		if box.PlantID == nil || *box.PlantID != *req.PlantID {
			updates["plant_id"] = *req.PlantID
			updates["watering_count"] = 0
			updates["led_status"] = false
			updates["pump_status"] = false
			updates["last_watering_date"] = nil
		}
	}

	if len(updates) > 0 {
		if err := db.Model(&box).Updates(updates).Error; err != nil {
			abortWithError(c, err)
			return
		}
	}

	if err := db.Preload("Plant").First(&box, boxID).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, box)
}

// DeleteBox handles DELETE /api/boxes/{box_id}.
func (h *Handler) DeleteBox(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}

	res := h.store.DB().Delete(&model.Box{}, boxID)
	if res.Error != nil {
		abortWithError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "box not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetActuators handles GET /api/boxes/{box_id}/actuators, the actuator
// state snapshot shown to operators and polled by devices.
func (h *Handler) GetActuators(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}

	box, err := h.store.GetBox(c.Request.Context(), boxID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"boxId":            box.ID,
		"boxName":          box.Name,
		"led":              box.LedStatus,
		"pump":             box.PumpStatus,
		"manualLed":        box.ManualLed,
		"manualPump":       box.ManualPump,
		"wateringCount":    box.WateringCount,
		"lastWateringDate": box.LastWateringDate,
	})
}

type updateActuatorsRequest struct {
	ManualLed  *bool `json:"manualLed"`
	ManualPump *bool `json:"manualPump"`
}

// UpdateActuators handles PATCH /api/boxes/{box_id}/actuators. Operators
// set the override intent here; the manual policy mirrors it on the next
// reading.
func (h *Handler) UpdateActuators(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}
	var req updateActuatorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]any{}
	if req.ManualLed != nil {
		updates["manual_led"] = *req.ManualLed
	}
	if req.ManualPump != nil {
		updates["manual_pump"] = *req.ManualPump
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	res := h.store.DB().Model(&model.Box{}).Where("id = ?", boxID).Updates(updates)
	if res.Error != nil {
		abortWithError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "box not found"})
		return
	}

	box, err := h.store.GetBox(c.Request.Context(), boxID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"manualLed": box.ManualLed, "manualPump": box.ManualPump})
}
