package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pump-maintenance-backend/internal/backup"
	"pump-maintenance-backend/internal/seed"
)

// CreateBackup handles POST /api/backup. The snapshot is written under the
// configured backup directory and the file name is returned to the caller.
func (h *Handler) CreateBackup(c *gin.Context) {
	res, err := backup.Create(c.Request.Context(), h.store, h.cfg.Backup.Dir, h.cfg.Database.Driver)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"file":            res.File,
		"equipment_count": res.EquipmentCount,
		"logs_count":      res.LogsCount,
	})
}

type restoreRequest struct {
	File string `json:"file" binding:"required"`
}

// RestoreBackup handles POST /api/restore. The existing dataset is replaced
// wholesale; a malformed snapshot leaves it untouched.
func (h *Handler) RestoreBackup(c *gin.Context) {
	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := backup.Restore(c.Request.Context(), h.store, req.File)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"file":            res.File,
		"equipment_count": res.EquipmentCount,
		"logs_count":      res.LogsCount,
	})
}

// SeedDatabase handles POST /api/seed. Seeding is skipped when equipment
// rows already exist.
func (h *Handler) SeedDatabase(c *gin.Context) {
	res, err := seed.Run(c.Request.Context(), h.store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"skipped":         res.Skipped,
		"equipment_count": res.EquipmentCount,
		"logs_count":      res.LogsCount,
	})
}
