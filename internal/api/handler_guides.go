package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantbox-backend/internal/model"
)

type createGuideRequest struct {
	PlantID     int64  `json:"plantId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Step        int    `json:"step" binding:"required"`
	Image       string `json:"image"`
}

// CreateGuide handles POST /api/guides.
func (h *Handler) CreateGuide(c *gin.Context) {
	var req createGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := h.store.DB()
	var plant model.Plant
	if err := db.First(&plant, req.PlantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "plant not found"})
		return
	}

	guide := model.Guide{
		PlantID:     req.PlantID,
		Title:       req.Title,
		Description: req.Description,
		Step:        req.Step,
		Image:       req.Image,
	}
	if err := db.Create(&guide).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, guide)
}

// ListGuides handles GET /api/guides, optionally filtered by ?plant_id=.
func (h *Handler) ListGuides(c *gin.Context) {
	q := h.store.DB().Order("plant_id ASC").Order("step ASC")
	if plantID := c.Query("plant_id"); plantID != "" {
		q = q.Where("plant_id = ?", plantID)
	}

	var guides []model.Guide
	if err := q.Find(&guides).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(guides), "data": guides})
}

// GetGuide handles GET /api/guides/{id}.
func (h *Handler) GetGuide(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var guide model.Guide
	if err := h.store.DB().First(&guide, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "guide not found"})
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, guide)
}

type updateGuideRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Step        *int    `json:"step"`
	Image       *string `json:"image"`
}

// UpdateGuide handles PATCH /api/guides/{id}.
func (h *Handler) UpdateGuide(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updateGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := h.store.DB()
	var guide model.Guide
	if err := db.First(&guide, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "guide not found"})
			return
		}
		abortWithError(c, err)
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Step != nil {
		updates["step"] = *req.Step
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}

	if len(updates) > 0 {
		if err := db.Model(&guide).Updates(updates).Error; err != nil {
			abortWithError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, guide)
}

// DeleteGuide handles DELETE /api/guides/{id}.
func (h *Handler) DeleteGuide(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.store.DB().Delete(&model.Guide{}, id)
	if res.Error != nil {
		abortWithError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "guide not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
