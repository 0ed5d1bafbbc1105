package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"pump-maintenance-backend/config"
	"pump-maintenance-backend/internal/analytics"
	"pump-maintenance-backend/internal/model"
	"pump-maintenance-backend/internal/notification"
	"pump-maintenance-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	engine   *analytics.Engine
	notifier *notification.WorkerPool
	webpush  *webpush.Options
	cfg      *config.Config
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, engine *analytics.Engine, notifier *notification.WorkerPool, webpushOptions *webpush.Options, cfg *config.Config) *Handler {
	return &Handler{
		store:    s,
		engine:   engine,
		notifier: notifier,
		webpush:  webpushOptions,
		cfg:      cfg,
	}
}

const dateLayout = "2006-01-02"

// logResponse is the flattened wire shape of a maintenance log.
type logResponse struct {
	LogID          int      `json:"log_id"`
	EquipmentID    int      `json:"equipment_id"`
	WorkWeek       string   `json:"work_week"`
	CheckDate      string   `json:"check_date"`
	UserName       string   `json:"user_name"`
	OilLevelOK     bool     `json:"oil_level_ok"`
	OilConditionOK bool     `json:"oil_condition_ok"`
	OilFilterOK    bool     `json:"oil_filter_ok"`
	PumpTemp       *float64 `json:"pump_temp"`
	Service        string   `json:"service"`
	ServiceNotes   string   `json:"service_notes"`
	EquipmentName  string   `json:"equipment_name,omitempty"`
}

func toLogResponse(l model.MaintenanceLog) logResponse {
	return logResponse{
		LogID:          l.LogID,
		EquipmentID:    l.EquipmentID,
		WorkWeek:       l.WorkWeek,
		CheckDate:      l.CheckDate.Format(dateLayout),
		UserName:       l.UserName,
		OilLevelOK:     l.OilLevelOK,
		OilConditionOK: l.OilConditionOK,
		OilFilterOK:    l.OilFilterOK,
		PumpTemp:       l.PumpTemp,
		Service:        l.Service,
		ServiceNotes:   l.ServiceNotes,
		EquipmentName:  l.Equipment.EquipmentName,
	}
}

func toLogResponses(logs []model.MaintenanceLog) []logResponse {
	out := make([]logResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, toLogResponse(l))
	}
	return out
}

// parseDate reads a YYYY-MM-DD form value as a midnight-UTC date.
func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// dispatchAlerts queues push notifications for every saved entry that
// crossed an alert rule. Push failures never fail the save.
func (h *Handler) dispatchAlerts(entries map[int]store.LogEntry) {
	if h.notifier == nil {
		return
	}
	for equipmentID, entry := range entries {
		if analytics.AlertWorthy(entry.Service, entry.PumpTemp) {
			h.notifier.Dispatch(equipmentID)
		}
	}
}
