package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"plantbox-backend/internal/model"
)

type createPlantRequest struct {
	Name              string   `json:"name" binding:"required"`
	MinTemperature    float64  `json:"minTemperature"`
	MaxTemperature    float64  `json:"maxTemperature"`
	MinHumidity       float64  `json:"minHumidity"`
	MaxHumidity       float64  `json:"maxHumidity"`
	MinWaterLevel     float64  `json:"minWaterLevel"`
	MinSoilMoisture   *float64 `json:"minSoilMoisture"`
	LightHours        float64  `json:"lightHours"`
	WateringFrequency int      `json:"wateringFrequency"`
}

// CreatePlant handles POST /api/plants.
func (h *Handler) CreatePlant(c *gin.Context) {
	var req createPlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := h.store.DB()
	var existing model.Plant
	if err := db.First(&existing, "name = ?", req.Name).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "a plant with this name already exists"})
		return
	}

	plant := model.Plant{
		Name:              req.Name,
		MinTemperature:    req.MinTemperature,
		MaxTemperature:    req.MaxTemperature,
		MinHumidity:       req.MinHumidity,
		MaxHumidity:       req.MaxHumidity,
		MinWaterLevel:     req.MinWaterLevel,
		MinSoilMoisture:   req.MinSoilMoisture,
		LightHours:        req.LightHours,
		WateringFrequency: req.WateringFrequency,
	}
	if err := db.Create(&plant).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plant)
}

// ListPlants handles GET /api/plants.
func (h *Handler) ListPlants(c *gin.Context) {
	var plants []model.Plant
	if err := h.store.DB().Order("created_at ASC").Find(&plants).Error; err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(plants), "data": plants})
}

// GetPlant handles GET /api/plants/{id}.
func (h *Handler) GetPlant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var plant model.Plant
	if err := h.store.DB().First(&plant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plant not found"})
			return
		}
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plant)
}

type updatePlantRequest struct {
	Name              *string  `json:"name"`
	MinTemperature    *float64 `json:"minTemperature"`
	MaxTemperature    *float64 `json:"maxTemperature"`
	MinHumidity       *float64 `json:"minHumidity"`
	MaxHumidity       *float64 `json:"maxHumidity"`
	MinWaterLevel     *float64 `json:"minWaterLevel"`
	MinSoilMoisture   *float64 `json:"minSoilMoisture"`
	LightHours        *float64 `json:"lightHours"`
	WateringFrequency *int     `json:"wateringFrequency"`
}

// UpdatePlant handles PATCH /api/plants/{id}.
func (h *Handler) UpdatePlant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req updatePlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := h.store.DB()
	var plant model.Plant
	if err := db.First(&plant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plant not found"})
			return
		}
		abortWithError(c, err)
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.MinTemperature != nil {
		updates["min_temperature"] = *req.MinTemperature
	}
	if req.MaxTemperature != nil {
		updates["max_temperature"] = *req.MaxTemperature
	}
	if req.MinHumidity != nil {
		updates["min_humidity"] = *req.MinHumidity
	}
	if req.MaxHumidity != nil {
		updates["max_humidity"] = *req.MaxHumidity
	}
	if req.MinWaterLevel != nil {
		updates["min_water_level"] = *req.MinWaterLevel
	}
	if req.MinSoilMoisture != nil {
		updates["min_soil_moisture"] = *req.MinSoilMoisture
	}
	if req.LightHours != nil {
		updates["light_hours"] = *req.LightHours
	}
	if req.WateringFrequency != nil {
		updates["watering_frequency"] = *req.WateringFrequency
	}

	if len(updates) > 0 {
		if err := db.Model(&plant).Updates(updates).Error; err != nil {
			abortWithError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, plant)
}

// DeletePlant handles DELETE /api/plants/{id}.
func (h *Handler) DeletePlant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	res := h.store.DB().Delete(&model.Plant{}, id)
	if res.Error != nil {
		abortWithError(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "plant not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
