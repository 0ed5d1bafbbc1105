package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pump-maintenance-backend/internal/store"
)

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Dashboard handles GET /api/dashboard.
func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.engine.Dashboard(c.Request.Context(), time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"work_week":        d.WorkWeek,
		"needs_oil":        d.NeedsOil,
		"high_temp":        d.HighTemp,
		"maintenance_rate": d.MaintenanceRate,
		"current_logs":     toLogResponses(d.CurrentLogs),
	})
}

// HallOfFame handles GET /api/hall-of-fame.
func (h *Handler) HallOfFame(c *gin.Context) {
	entries, err := h.engine.HallOfFame(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build hall of fame"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hall_of_fame": entries})
}

// ChartData handles GET /api/chart-data.
func (h *Handler) ChartData(c *gin.Context) {
	data, err := h.engine.ChartData(c.Request.Context(), time.Now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build chart data"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// DBStatus handles GET /api/db-status: a quick look at what the backend is
// connected to and how much data it holds.
func (h *Handler) DBStatus(c *gin.Context) {
	equipmentCount, logsCount, err := h.store.Counts(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to query database"})
		return
	}

	sample, err := h.store.ListLogs(c.Request.Context(), store.LogFilter{NewestFirst: true, WithEquipment: true})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to query database"})
		return
	}
	if len(sample) > 5 {
		sample = sample[:5]
	}

	c.JSON(http.StatusOK, gin.H{
		"driver":          h.cfg.Database.Driver,
		"equipment_count": equipmentCount,
		"logs_count":      logsCount,
		"recent_logs":     toLogResponses(sample),
	})
}
