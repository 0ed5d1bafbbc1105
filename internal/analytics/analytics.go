// Package analytics is the read model behind the dashboard: alert lists,
// the weekly maintenance rate, chart aggregations, and the hall-of-fame
// owner ranking. It is recomputed from a fresh store snapshot on every
// request, never mutates records, and fails whole rather than rendering a
// dashboard with sections missing.
package analytics

import (
	"strings"
	"time"

	"pump-maintenance-backend/internal/model"
)

// HighTempThreshold is the pump temperature at which a reading becomes an
// alert. Boundary inclusive: 80.0 exactly alerts.
const HighTempThreshold = 80.0

// NeedsOilServices are the service values that put equipment on the needs-oil
// list. Matching is exact-string; custom service text never matches.
var NeedsOilServices = []string{"Add Oil", "Drain & Replace Oil"}

// Alert windows, in days before "now".
const (
	alertWindowDays = 14
	rateWindowDays  = 7
	chartWindowDays = 60
)

// Eligible reports whether equipment participates in weekly workflows and the
// owner ranking. Scroll pumps need no oil service and spare units sit out of
// the weekly rotation; counting either would dilute every ratio they feed.
func Eligible(eq model.Equipment) bool {
	if strings.Contains(strings.ToLower(eq.OilType), "scroll") {
		return false
	}
	if strings.Contains(strings.ToLower(eq.EquipmentName), "spare") {
		return false
	}
	return true
}

// FilterEligible returns the eligible subset, preserving order.
func FilterEligible(equipment []model.Equipment) []model.Equipment {
	eligible := make([]model.Equipment, 0, len(equipment))
	for _, eq := range equipment {
		if Eligible(eq) {
			eligible = append(eligible, eq)
		}
	}
	return eligible
}

// AlertWorthy reports whether a single log entry would land its equipment on
// an alert list. Used by the notification dispatch after a weekly save.
func AlertWorthy(service string, pumpTemp *float64) bool {
	for _, s := range NeedsOilServices {
		if service == s {
			return true
		}
	}
	return pumpTemp != nil && *pumpTemp >= HighTempThreshold
}

// MaintenanceRate is the percentage of eligible equipment with at least one
// recent log. Zero when there is no eligible equipment.
func MaintenanceRate(eligible []model.Equipment, recentLogs []model.MaintenanceLog) float64 {
	if len(eligible) == 0 {
		return 0
	}
	eligibleIDs := make(map[int]bool, len(eligible))
	for _, eq := range eligible {
		eligibleIDs[eq.EquipmentID] = true
	}
	maintained := make(map[int]bool)
	for _, l := range recentLogs {
		if eligibleIDs[l.EquipmentID] {
			maintained[l.EquipmentID] = true
		}
	}
	return float64(len(maintained)) / float64(len(eligible)) * 100
}

// windowStart returns the inclusive check_date cutoff for a trailing window:
// whole dates, so a log dated exactly `days` days ago is inside the window.
func windowStart(now time.Time, days int) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
}
