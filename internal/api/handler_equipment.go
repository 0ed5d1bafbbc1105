package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pump-maintenance-backend/internal/model"
	"pump-maintenance-backend/internal/store"
)

type equipmentRequest struct {
	EquipmentID   int    `json:"equipment_id"`
	EquipmentName string `json:"equipment_name" binding:"required"`
	PumpModel     string `json:"pump_model"`
	OilType       string `json:"oil_type"`
	PumpOwner     string `json:"pump_owner"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

// ListEquipment handles GET /api/equipment.
func (h *Handler) ListEquipment(c *gin.Context) {
	equipment, err := h.store.ListEquipment(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve equipment"})
		return
	}
	nextID, err := h.store.NextEquipmentID(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve equipment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipment": equipment, "next_equipment_id": nextID})
}

// GetEquipment handles GET /api/equipment/:equipment_id, returning the
// equipment together with its log history, newest first.
func (h *Handler) GetEquipment(c *gin.Context) {
	id, ok := equipmentIDParam(c)
	if !ok {
		return
	}

	eq, err := h.store.GetEquipment(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve equipment"})
		return
	}

	logs, err := h.store.ListLogs(c.Request.Context(), store.LogFilter{
		EquipmentID: &id,
		NewestFirst: true,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve maintenance logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"equipment": eq, "logs": toLogResponses(logs)})
}

// CreateEquipment handles POST /api/equipment. The equipment ID comes from
// the caller; a collision is a conflict, not an overwrite.
func (h *Handler) CreateEquipment(c *gin.Context) {
	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.EquipmentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "equipment_id must be a positive integer"})
		return
	}

	eq := model.Equipment{
		EquipmentID:   req.EquipmentID,
		EquipmentName: req.EquipmentName,
		PumpModel:     req.PumpModel,
		OilType:       req.OilType,
		PumpOwner:     req.PumpOwner,
		Status:        req.Status,
		Notes:         req.Notes,
	}

	err := h.store.CreateEquipment(c.Request.Context(), &eq)
	if errors.Is(err, store.ErrDuplicateEquipment) {
		c.JSON(http.StatusConflict, gin.H{"error": "Equipment ID already exists. Please use a different number."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, eq)
}

// UpdateEquipment handles PUT /api/equipment/:equipment_id. Equipment is
// edited in place and never re-identified.
func (h *Handler) UpdateEquipment(c *gin.Context) {
	id, ok := equipmentIDParam(c)
	if !ok {
		return
	}

	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	eq := model.Equipment{
		EquipmentID:   id,
		EquipmentName: req.EquipmentName,
		PumpModel:     req.PumpModel,
		OilType:       req.OilType,
		PumpOwner:     req.PumpOwner,
		Status:        req.Status,
		Notes:         req.Notes,
	}

	err := h.store.UpdateEquipment(c.Request.Context(), &eq)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, eq)
}

type deleteEquipmentRequest struct {
	EquipmentIDs []int `json:"equipment_ids" binding:"required"`
}

// DeleteEquipment handles POST /api/equipment/delete-multiple. Deleting
// equipment cascades to its maintenance logs.
func (h *Handler) DeleteEquipment(c *gin.Context) {
	var req deleteEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.EquipmentIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No equipment selected for deletion"})
		return
	}

	deleted, err := h.store.DeleteEquipment(c.Request.Context(), req.EquipmentIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// DropdownOptions handles GET /api/dropdown-options/:field, returning the
// distinct values already present for a field of the equipment form.
func (h *Handler) DropdownOptions(c *gin.Context) {
	values, err := h.store.DistinctEquipmentValues(c.Request.Context(), c.Param("field"))
	if err != nil {
		// Unknown fields and query errors alike degrade to an empty list.
		c.JSON(http.StatusOK, []string{})
		return
	}
	c.JSON(http.StatusOK, values)
}

func equipmentIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("equipment_id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID"})
		return 0, false
	}
	return id, true
}
