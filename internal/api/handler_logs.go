package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pump-maintenance-backend/internal/model"
	"pump-maintenance-backend/internal/parse"
	"pump-maintenance-backend/internal/store"
	"pump-maintenance-backend/internal/workweek"
)

// logEntryRequest carries one equipment's checklist from the weekly form.
// PumpTemp arrives as raw text; whatever does not parse as a finite number
// is stored as "not measured".
type logEntryRequest struct {
	OilLevelOK     bool   `json:"oil_level_ok"`
	OilConditionOK bool   `json:"oil_condition_ok"`
	OilFilterOK    bool   `json:"oil_filter_ok"`
	PumpTemp       string `json:"pump_temp"`
	Service        string `json:"service"`
	ServiceNotes   string `json:"service_notes"`
}

func (r logEntryRequest) toEntry(checkDate time.Time, userName string) store.LogEntry {
	service := r.Service
	if service == "" {
		service = model.ServiceNoneRequired
	}
	return store.LogEntry{
		CheckDate:      checkDate,
		UserName:       userName,
		OilLevelOK:     r.OilLevelOK,
		OilConditionOK: r.OilConditionOK,
		OilFilterOK:    r.OilFilterOK,
		PumpTemp:       parse.Temperature(r.PumpTemp),
		Service:        service,
		ServiceNotes:   r.ServiceNotes,
	}
}

// GetWeeklyLog handles GET /api/weekly-log. It returns the full equipment
// list alongside any logs already recorded for the requested week, which
// defaults to the current one.
func (h *Handler) GetWeeklyLog(c *gin.Context) {
	week := c.Query("work_week")
	if week == "" {
		week = workweek.Current()
	} else if !workweek.Valid(week) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid work week. Use YYYY-WWnn."})
		return
	}

	equipment, err := h.store.ListEquipment(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve equipment"})
		return
	}

	logs, err := h.store.ListLogs(c.Request.Context(), store.LogFilter{WorkWeek: week})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve maintenance logs"})
		return
	}

	existing := make(map[int]logResponse, len(logs))
	var userName string
	for _, l := range logs {
		existing[l.EquipmentID] = toLogResponse(l)
		if userName == "" {
			userName = l.UserName
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"work_week":     week,
		"equipment":     equipment,
		"existing_logs": existing,
		"user_name":     userName,
	})
}

type weeklyLogRequest struct {
	CheckDate string                     `json:"check_date" binding:"required"`
	UserName  string                     `json:"user_name"`
	Entries   map[string]logEntryRequest `json:"entries" binding:"required"`
}

// SaveWeeklyLog handles PUT /api/weekly-log/:work_week: one transactional
// upsert per equipment keyed by (equipment, work_week). Re-submitting a week
// overwrites it, last writer wins.
func (h *Handler) SaveWeeklyLog(c *gin.Context) {
	week := c.Param("work_week")
	if !workweek.Valid(week) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work week. Use YYYY-WWnn."})
		return
	}

	var req weeklyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkDate, err := parseDate(req.CheckDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format: " + req.CheckDate + ". Please use YYYY-MM-DD format."})
		return
	}

	entries := make(map[int]store.LogEntry, len(req.Entries))
	for key, entry := range req.Entries {
		equipmentID, err := strconv.Atoi(key)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid equipment ID: " + key})
			return
		}
		entries[equipmentID] = entry.toEntry(checkDate, req.UserName)
	}

	if err := h.store.SaveWeeklyLogs(c.Request.Context(), week, entries); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.dispatchAlerts(entries)
	c.JSON(http.StatusOK, gin.H{"work_week": week, "saved": len(entries)})
}

type singleLogRequest struct {
	CheckDate string `json:"check_date" binding:"required"`
	UserName  string `json:"user_name"`
	logEntryRequest
}

// SaveEquipmentLog handles PUT /api/equipment/:equipment_id/logs/:work_week,
// the single-row variant of the weekly save.
func (h *Handler) SaveEquipmentLog(c *gin.Context) {
	id, ok := equipmentIDParam(c)
	if !ok {
		return
	}
	week := c.Param("work_week")
	if !workweek.Valid(week) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid work week. Use YYYY-WWnn."})
		return
	}

	if _, err := h.store.GetEquipment(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve equipment"})
		}
		return
	}

	var req singleLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkDate, err := parseDate(req.CheckDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format: " + req.CheckDate + ". Please use YYYY-MM-DD format."})
		return
	}

	entry := req.toEntry(checkDate, req.UserName)
	saved, err := h.store.UpsertLog(c.Request.Context(), id, week, entry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.dispatchAlerts(map[int]store.LogEntry{id: entry})
	c.JSON(http.StatusOK, toLogResponse(*saved))
}

// ListLogs handles GET /api/logs with optional work_week and equipment_id
// filters, plus the distinct week list for the filter dropdown.
func (h *Handler) ListLogs(c *gin.Context) {
	filter := store.LogFilter{
		WorkWeek:      c.Query("work_week"),
		WithEquipment: true,
		NewestFirst:   true,
	}
	if raw := c.Query("equipment_id"); raw != "" {
		// A non-numeric equipment_id is ignored, matching the historical
		// lenient filter behavior.
		if id, err := strconv.Atoi(raw); err == nil {
			filter.EquipmentID = &id
		}
	}

	logs, err := h.store.ListLogs(c.Request.Context(), filter)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve maintenance logs"})
		return
	}

	weeks, err := h.store.DistinctWorkWeeks(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve work weeks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": toLogResponses(logs), "work_weeks": weeks})
}

type editLogRequest struct {
	CheckDate string `json:"check_date"`
	UserName  string `json:"user_name"`
	logEntryRequest
}

// UpdateLog handles PUT /api/logs/:log_id. The stored work_week label is
// deliberately not recomputed when the check date changes; backfilled labels
// are manual corrections.
func (h *Handler) UpdateLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("log_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
		return
	}

	l, err := h.store.GetLog(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance log not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve maintenance log"})
		return
	}

	var req editLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.CheckDate != "" {
		checkDate, err := parseDate(req.CheckDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Please use YYYY-MM-DD format."})
			return
		}
		l.CheckDate = checkDate
	}
	l.UserName = req.UserName
	l.OilLevelOK = req.OilLevelOK
	l.OilConditionOK = req.OilConditionOK
	l.OilFilterOK = req.OilFilterOK
	l.PumpTemp = parse.Temperature(req.PumpTemp)
	if req.Service != "" {
		l.Service = req.Service
	}
	l.ServiceNotes = req.ServiceNotes

	if err := h.store.UpdateLog(c.Request.Context(), l); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toLogResponse(*l))
}

// DeleteLog handles DELETE /api/logs/:log_id.
func (h *Handler) DeleteLog(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("log_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log ID"})
		return
	}

	err = h.store.DeleteLog(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Maintenance log not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
