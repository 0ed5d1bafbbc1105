package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pump-maintenance-backend/internal/model"
	"pump-maintenance-backend/internal/store"
	"pump-maintenance-backend/internal/workweek"
)

// Engine computes the analytics read model from the record store. It holds no
// state between calls: each invocation reads a fresh snapshot and is safe to
// re-run, so a failed read is simply surfaced and never retried.
type Engine struct {
	store store.Store
}

// NewEngine creates an analytics engine over the given store.
func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

// Dashboard is the weekly overview payload.
type Dashboard struct {
	WorkWeek        string                 `json:"work_week"`
	NeedsOil        []model.Equipment      `json:"needs_oil"`
	HighTemp        []model.Equipment      `json:"high_temp"`
	MaintenanceRate float64                `json:"maintenance_rate"`
	CurrentLogs     []model.MaintenanceLog `json:"current_logs"`
}

// Dashboard builds the alert lists, the trailing-7-day maintenance rate, and
// the current week's logs as of "now".
func (e *Engine) Dashboard(ctx context.Context, now time.Time) (*Dashboard, error) {
	equipment, err := e.store.ListEquipment(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	alertCutoff := windowStart(now, alertWindowDays)
	oilLogs, err := e.store.ListLogs(ctx, store.LogFilter{
		DateFrom:  &alertCutoff,
		ServiceIn: NeedsOilServices,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	threshold := HighTempThreshold
	hotLogs, err := e.store.ListLogs(ctx, store.LogFilter{
		DateFrom: &alertCutoff,
		TempGTE:  &threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	rateCutoff := windowStart(now, rateWindowDays)
	recentLogs, err := e.store.ListLogs(ctx, store.LogFilter{DateFrom: &rateCutoff})
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	currentWeek := workweek.Label(now)
	currentLogs, err := e.store.ListLogs(ctx, store.LogFilter{WorkWeek: currentWeek})
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	sort.SliceStable(currentLogs, func(i, j int) bool {
		return currentLogs[i].EquipmentID < currentLogs[j].EquipmentID
	})

	return &Dashboard{
		WorkWeek:        currentWeek,
		NeedsOil:        joinDistinctEquipment(equipment, oilLogs),
		HighTemp:        joinDistinctEquipment(equipment, hotLogs),
		MaintenanceRate: MaintenanceRate(FilterEligible(equipment), recentLogs),
		CurrentLogs:     currentLogs,
	}, nil
}

// joinDistinctEquipment resolves the distinct equipment referenced by the
// given logs, in equipment-ID order.
func joinDistinctEquipment(equipment []model.Equipment, logs []model.MaintenanceLog) []model.Equipment {
	hit := make(map[int]bool, len(logs))
	for _, l := range logs {
		hit[l.EquipmentID] = true
	}
	matched := make([]model.Equipment, 0, len(hit))
	for _, eq := range equipment {
		if hit[eq.EquipmentID] {
			matched = append(matched, eq)
		}
	}
	return matched
}

// HallOfFame computes the owner ranking over the current store contents.
func (e *Engine) HallOfFame(ctx context.Context) ([]HallOfFameEntry, error) {
	equipment, err := e.store.ListEquipment(ctx)
	if err != nil {
		return nil, fmt.Errorf("hall of fame: %w", err)
	}
	logs, err := e.store.ListLogs(ctx, store.LogFilter{})
	if err != nil {
		return nil, fmt.Errorf("hall of fame: %w", err)
	}
	return ComputeHallOfFame(equipment, logs), nil
}

// ChartData is the aggregate chart payload. Both the service histogram and
// the hall of fame are included so the caller picks which one accompanies
// the temperature chart.
type ChartData struct {
	Temperature      TemperatureSeries `json:"temperature_series"`
	EquipmentCounts  []CountBucket     `json:"equipment_histogram"`
	ServiceHistogram []CountBucket     `json:"service_histogram"`
	HallOfFame       []HallOfFameEntry `json:"hall_of_fame"`
}

// ChartData builds the chart aggregations as of "now". The temperature series
// covers a trailing 60-day window; the histograms and ranking are all-time.
func (e *Engine) ChartData(ctx context.Context, now time.Time) (*ChartData, error) {
	chartCutoff := windowStart(now, chartWindowDays)
	tempLogs, err := e.store.ListLogs(ctx, store.LogFilter{
		DateFrom:      &chartCutoff,
		TempPresent:   true,
		WithEquipment: true,
	})
	if err != nil {
		return nil, fmt.Errorf("chart data: %w", err)
	}

	equipment, err := e.store.ListEquipment(ctx)
	if err != nil {
		return nil, fmt.Errorf("chart data: %w", err)
	}
	allLogs, err := e.store.ListLogs(ctx, store.LogFilter{})
	if err != nil {
		return nil, fmt.Errorf("chart data: %w", err)
	}

	return &ChartData{
		Temperature:      BuildTemperatureSeries(tempLogs),
		EquipmentCounts:  CountLogsByEquipment(equipment, allLogs),
		ServiceHistogram: CountLogsByService(allLogs),
		HallOfFame:       ComputeHallOfFame(equipment, allLogs),
	}, nil
}
