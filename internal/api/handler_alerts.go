package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListActiveAlerts handles GET /api/boxes/{box_id}/alerts/active:
// unresolved alerts, highest priority first, newest first within a priority.
func (h *Handler) ListActiveAlerts(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}

	alerts, err := h.alerts.Active(c.Request.Context(), boxID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(alerts), "data": alerts})
}

// ListAlerts handles GET /api/boxes/{box_id}/alerts: the full alert
// history, resolved and unresolved, newest first.
func (h *Handler) ListAlerts(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}

	alerts, err := h.alerts.History(c.Request.Context(), boxID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": len(alerts), "data": alerts})
}

// ResolveAlert handles PATCH /api/alerts/{id}/resolve.
func (h *Handler) ResolveAlert(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	alert, err := h.alerts.Resolve(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// ResolveAllAlerts handles PATCH /api/boxes/{box_id}/alerts/resolve.
func (h *Handler) ResolveAllAlerts(c *gin.Context) {
	boxID, ok := paramID(c, "box_id")
	if !ok {
		return
	}

	resolved, err := h.alerts.ResolveAll(c.Request.Context(), boxID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resolved": resolved})
}

// DeleteAlert handles DELETE /api/alerts/{id}.
func (h *Handler) DeleteAlert(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.alerts.Delete(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
