// Package seed populates an empty database with a realistic sample fleet so
// a fresh deployment has something to show on the dashboard.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"pump-maintenance-backend/internal/model"
	"pump-maintenance-backend/internal/store"
	"pump-maintenance-backend/internal/workweek"
)

// Result reports what the seeding pass inserted.
type Result struct {
	EquipmentCount int  `json:"equipment_count"`
	LogsCount      int  `json:"logs_count"`
	Skipped        bool `json:"skipped"`
}

var sampleEquipment = []model.Equipment{
	{EquipmentID: 1, EquipmentName: "JR Intake GB", PumpModel: "JR-2000", OilType: "Synthetic 20W", PumpOwner: "Engineering", Status: "active", Notes: "Main intake pump"},
	{EquipmentID: 2, EquipmentName: "Spot/Sonic Weld GB", PumpModel: "SW-500", OilType: "Mineral 10W", PumpOwner: "Production", Status: "active", Notes: "Requires weekly checks"},
	{EquipmentID: 3, EquipmentName: "Elyte GB", PumpModel: "EL-1000", OilType: "Synthetic 30W", PumpOwner: "R&D", Status: "active", Notes: "New installation"},
	{EquipmentID: 4, EquipmentName: "Chem GB 005", PumpModel: "CG-005", OilType: "Synthetic 20W", PumpOwner: "Chemistry", Status: "active", Notes: "Sensitive to temperature"},
	{EquipmentID: 5, EquipmentName: "Chem GB 006", PumpModel: "CG-006", OilType: "Synthetic 20W", PumpOwner: "Chemistry", Status: "active", Notes: "Backup for CG-005"},
	{EquipmentID: 6, EquipmentName: "GCMS", PumpModel: "GC-2000", OilType: "Mineral 15W", PumpOwner: "Analytics", Status: "active", Notes: "Critical system"},
	{EquipmentID: 7, EquipmentName: "GCMS panel", PumpModel: "GCP-100", OilType: "Mineral 15W", PumpOwner: "Analytics", Status: "active", Notes: "Connected to GCMS"},
	{EquipmentID: 8, EquipmentName: "Gas Pump/Goop Transfer", PumpModel: "GP-500", OilType: "Synthetic 40W", PumpOwner: "Production", Status: "active", Notes: "High temperature operation"},
	{EquipmentID: 9, EquipmentName: "Jupiter", PumpModel: "JP-1000", OilType: "Synthetic 20W", PumpOwner: "R&D", Status: "active", Notes: "Experimental setup"},
	{EquipmentID: 10, EquipmentName: "Olympus", PumpModel: "OL-2000", OilType: "Mineral 10W", PumpOwner: "Engineering", Status: "active", Notes: "Main production line"},
}

// Run inserts the sample fleet plus eight weeks of synthetic inspection logs.
// A database that already holds equipment is left alone.
func Run(ctx context.Context, s store.Store) (*Result, error) {
	count, err := s.CountEquipment(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	if count > 0 {
		return &Result{Skipped: true}, nil
	}

	equipment := make([]model.Equipment, len(sampleEquipment))
	copy(equipment, sampleEquipment)
	for i := range equipment {
		if err := s.CreateEquipment(ctx, &equipment[i]); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	today := time.Now().UTC().Truncate(24 * time.Hour)

	var logs []model.MaintenanceLog
	for _, eq := range equipment {
		for week := 0; week < 8; week++ {
			// Skip a fifth of the entries so the history looks lived-in.
			if rng.Float64() < 0.2 {
				continue
			}

			checkDate := today.AddDate(0, 0, -7*week-rng.Intn(7))
			oilLevel := rng.Float64() > 0.2
			oilCondition := rng.Float64() > 0.2
			oilFilter := rng.Float64() > 0.2
			temp := 60 + rng.Float64()*25

			var service string
			switch {
			case !oilLevel && !oilCondition:
				service = "Drain & Replace Oil"
			case !oilLevel:
				service = "Add Oil"
			case !oilFilter:
				service = "Replace Filter"
			default:
				service = model.StandardServices[rng.Intn(len(model.StandardServices))]
			}

			logs = append(logs, model.MaintenanceLog{
				EquipmentID:    eq.EquipmentID,
				WorkWeek:       workweek.Label(checkDate),
				CheckDate:      checkDate,
				UserName:       "System",
				OilLevelOK:     oilLevel,
				OilConditionOK: oilCondition,
				OilFilterOK:    oilFilter,
				PumpTemp:       &temp,
				Service:        service,
				ServiceNotes:   "Initial setup data",
			})
		}
	}

	if len(logs) > 0 {
		if err := s.DB().WithContext(ctx).CreateInBatches(logs, 100).Error; err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	return &Result{EquipmentCount: len(equipment), LogsCount: len(logs)}, nil
}
