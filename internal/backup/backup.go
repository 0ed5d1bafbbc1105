// Package backup writes and restores JSON snapshots of the maintenance
// database. The format is portable across database drivers, so a sqlite
// deployment can be restored into postgres and back.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pump-maintenance-backend/internal/model"
	"pump-maintenance-backend/internal/store"
)

const dateLayout = "2006-01-02"

// Snapshot is the on-disk backup document.
type Snapshot struct {
	Metadata Metadata `json:"metadata"`
	Tables   Tables   `json:"tables"`
}

// Metadata records when and from which driver the snapshot was taken.
type Metadata struct {
	Timestamp      string `json:"timestamp"`
	DatabaseDriver string `json:"database_driver"`
}

// Tables holds both entity tables.
type Tables struct {
	Equipment       []model.Equipment `json:"equipment"`
	MaintenanceLogs []LogRecord       `json:"maintenance_logs"`
}

// LogRecord is a maintenance log with its check date flattened to YYYY-MM-DD,
// the shape the snapshots have always used.
type LogRecord struct {
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
}

// Result summarizes a completed backup or restore.
type Result struct {
	File           string `json:"file,omitempty"`
	EquipmentCount int    `json:"equipment_count"`
	LogsCount      int    `json:"logs_count"`
}

// Create dumps both tables into a timestamped file under dir.
func Create(ctx context.Context, s store.Store, dir, driver string) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	equipment, err := s.ListEquipment(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}
	logs, err := s.ListLogs(ctx, store.LogFilter{})
	if err != nil {
		return nil, fmt.Errorf("backup: %w", err)
	}

	snapshot := Snapshot{
		Metadata: Metadata{
			Timestamp:      time.Now().Format(time.RFC3339),
			DatabaseDriver: driver,
		},
		Tables: Tables{
			Equipment:       equipment,
			MaintenanceLogs: make([]LogRecord, 0, len(logs)),
		},
	}
	for _, l := range logs {
		snapshot.Tables.MaintenanceLogs = append(snapshot.Tables.MaintenanceLogs, LogRecord{
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
		})
	}

	file := filepath.Join(dir, fmt.Sprintf("db_backup_%s.json", time.Now().Format("20060102_150405")))
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	return &Result{
		File:           file,
		EquipmentCount: len(equipment),
		LogsCount:      len(snapshot.Tables.MaintenanceLogs),
	}, nil
}

// Restore replaces the entire dataset with the given snapshot file's
// contents. All-or-nothing: a malformed snapshot or failed insert leaves the
// database untouched.
func Restore(ctx context.Context, s store.Store, file string) (*Result, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("invalid backup file format: %w", err)
	}
	if snapshot.Tables.Equipment == nil && snapshot.Tables.MaintenanceLogs == nil {
		return nil, fmt.Errorf("invalid backup file format: no tables found")
	}

	logs := make([]model.MaintenanceLog, 0, len(snapshot.Tables.MaintenanceLogs))
	for _, r := range snapshot.Tables.MaintenanceLogs {
		checkDate, err := time.Parse(dateLayout, r.CheckDate)
		if err != nil {
			return nil, fmt.Errorf("invalid check_date %q in log %d: %w", r.CheckDate, r.LogID, err)
		}
		logs = append(logs, model.MaintenanceLog{
			LogID:          r.LogID,
			EquipmentID:    r.EquipmentID,
			WorkWeek:       r.WorkWeek,
			CheckDate:      checkDate,
			UserName:       r.UserName,
			OilLevelOK:     r.OilLevelOK,
			OilConditionOK: r.OilConditionOK,
			OilFilterOK:    r.OilFilterOK,
			PumpTemp:       r.PumpTemp,
			Service:        r.Service,
			ServiceNotes:   r.ServiceNotes,
		})
	}

	if err := s.ReplaceAll(ctx, snapshot.Tables.Equipment, logs); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}

	return &Result{
		EquipmentCount: len(snapshot.Tables.Equipment),
		LogsCount:      len(logs),
	}, nil
}
