package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plantbox-backend/internal/boxcode"
)

type validateCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ValidateBoxCode handles POST /api/auth/validate. A device presents the
// code printed on its enclosure and receives the box identity plus the
// assigned plant's profile snapshot.
func (h *Handler) ValidateBoxCode(c *gin.Context) {
	var req validateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := boxcode.Parse(req.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	box, err := h.store.GetBoxByCode(c.Request.Context(), code)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := gin.H{
		"valid":   true,
		"boxId":   box.ID,
		"boxCode": box.Code,
		"boxName": box.Name,
		"plant":   nil,
	}
	if box.Plant != nil {
		resp["plant"] = box.Plant
	}
	c.JSON(http.StatusOK, resp)
}
