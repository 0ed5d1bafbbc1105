package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"pump-maintenance-backend/internal/model"
)

// ErrDuplicateEquipment is returned when a caller-assigned equipment ID is
// already taken.
var ErrDuplicateEquipment = errors.New("equipment id already exists")

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	ListEquipment(ctx context.Context) ([]model.Equipment, error)
	GetEquipment(ctx context.Context, id int) (*model.Equipment, error)
	CreateEquipment(ctx context.Context, eq *model.Equipment) error
	UpdateEquipment(ctx context.Context, eq *model.Equipment) error
	DeleteEquipment(ctx context.Context, ids []int) (int64, error)
	CountEquipment(ctx context.Context) (int64, error)
	NextEquipmentID(ctx context.Context) (int, error)

	ListLogs(ctx context.Context, filter LogFilter) ([]model.MaintenanceLog, error)
	GetLog(ctx context.Context, id int) (*model.MaintenanceLog, error)
	UpdateLog(ctx context.Context, l *model.MaintenanceLog) error
	DeleteLog(ctx context.Context, id int) error
	UpsertLog(ctx context.Context, equipmentID int, workWeek string, entry LogEntry) (*model.MaintenanceLog, error)
	SaveWeeklyLogs(ctx context.Context, workWeek string, entries map[int]LogEntry) error

	DistinctEquipmentValues(ctx context.Context, field string) ([]string, error)
	DistinctWorkWeeks(ctx context.Context) ([]string, error)

	ReplaceAll(ctx context.Context, equipment []model.Equipment, logs []model.MaintenanceLog) error
	Counts(ctx context.Context) (equipment int64, logs int64, err error)
}

// LogFilter narrows a maintenance log read. Zero-value fields are ignored.
type LogFilter struct {
	EquipmentID   *int
	WorkWeek      string
	DateFrom      *time.Time // inclusive lower bound on check_date
	ServiceIn     []string   // exact-string match, no case folding
	TempGTE       *float64   // only rows with a present pump_temp
	TempPresent   bool
	WithEquipment bool // preload the owning equipment
	NewestFirst   bool // check_date DESC, equipment_id ASC
}

// LogEntry carries the checklist fields of one weekly inspection row.
type LogEntry struct {
	CheckDate      time.Time
	UserName       string
	OilLevelOK     bool
	OilConditionOK bool
	OilFilterOK    bool
	PumpTemp       *float64
	Service        string
	ServiceNotes   string
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

func (s *gormStore) ListEquipment(ctx context.Context) ([]model.Equipment, error) {
	var equipment []model.Equipment
	if err := s.db.WithContext(ctx).Order("equipment_id").Find(&equipment).Error; err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	return equipment, nil
}

func (s *gormStore) GetEquipment(ctx context.Context, id int) (*model.Equipment, error) {
	var eq model.Equipment
	if err := s.db.WithContext(ctx).First(&eq, "equipment_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &eq, nil
}

func (s *gormStore) CreateEquipment(ctx context.Context, eq *model.Equipment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Equipment{}).Where("equipment_id = ?", eq.EquipmentID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check equipment id %d: %w", eq.EquipmentID, err)
		}
		if count > 0 {
			return ErrDuplicateEquipment
		}
		if eq.Status == "" {
			eq.Status = "active"
		}
		if err := tx.Create(eq).Error; err != nil {
			return fmt.Errorf("failed to create equipment %d: %w", eq.EquipmentID, err)
		}
		return nil
	})
}

func (s *gormStore) UpdateEquipment(ctx context.Context, eq *model.Equipment) error {
	res := s.db.WithContext(ctx).Model(&model.Equipment{EquipmentID: eq.EquipmentID}).
		Select("equipment_name", "pump_model", "oil_type", "pump_owner", "status", "notes").
		Updates(eq)
	if res.Error != nil {
		return fmt.Errorf("failed to update equipment %d: %w", eq.EquipmentID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteEquipment removes the given equipment and, via the FK cascade, all
// their maintenance logs. The log delete is issued explicitly as well because
// sqlite only honors the cascade when foreign_keys is on.
func (s *gormStore) DeleteEquipment(ctx context.Context, ids []int) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("equipment_id IN ?", ids).Delete(&model.MaintenanceLog{}).Error; err != nil {
			return fmt.Errorf("failed to delete maintenance logs: %w", err)
		}
		res := tx.Where("equipment_id IN ?", ids).Delete(&model.Equipment{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete equipment: %w", res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (s *gormStore) CountEquipment(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Equipment{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count equipment: %w", err)
	}
	return count, nil
}

func (s *gormStore) NextEquipmentID(ctx context.Context) (int, error) {
	var maxID int
	err := s.db.WithContext(ctx).Model(&model.Equipment{}).
		Select("COALESCE(MAX(equipment_id), 0)").Scan(&maxID).Error
	if err != nil {
		return 0, fmt.Errorf("failed to determine next equipment id: %w", err)
	}
	return maxID + 1, nil
}

func (s *gormStore) ListLogs(ctx context.Context, filter LogFilter) ([]model.MaintenanceLog, error) {
	q := s.db.WithContext(ctx).Model(&model.MaintenanceLog{})

	if filter.EquipmentID != nil {
		q = q.Where("maintenance_log.equipment_id = ?", *filter.EquipmentID)
	}
	if filter.WorkWeek != "" {
		q = q.Where("work_week = ?", filter.WorkWeek)
	}
	if filter.DateFrom != nil {
		q = q.Where("check_date >= ?", *filter.DateFrom)
	}
	if len(filter.ServiceIn) > 0 {
		q = q.Where("service IN ?", filter.ServiceIn)
	}
	if filter.TempPresent || filter.TempGTE != nil {
		q = q.Where("pump_temp IS NOT NULL")
	}
	if filter.TempGTE != nil {
		q = q.Where("pump_temp >= ?", *filter.TempGTE)
	}
	if filter.WithEquipment {
		q = q.Preload("Equipment")
	}
	if filter.NewestFirst {
		q = q.Order("check_date DESC").Order("equipment_id")
	} else {
		q = q.Order("check_date").Order("log_id")
	}

	var logs []model.MaintenanceLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list maintenance logs: %w", err)
	}
	return logs, nil
}

func (s *gormStore) GetLog(ctx context.Context, id int) (*model.MaintenanceLog, error) {
	var l model.MaintenanceLog
	if err := s.db.WithContext(ctx).Preload("Equipment").First(&l, "log_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *gormStore) UpdateLog(ctx context.Context, l *model.MaintenanceLog) error {
	res := s.db.WithContext(ctx).Model(&model.MaintenanceLog{LogID: l.LogID}).
		Updates(map[string]any{
			"check_date":       l.CheckDate,
			"user_name":        l.UserName,
			"oil_level_ok":     l.OilLevelOK,
			"oil_condition_ok": l.OilConditionOK,
			"oil_filter_ok":    l.OilFilterOK,
			"pump_temp":        l.PumpTemp,
			"service":          l.Service,
			"service_notes":    l.ServiceNotes,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update maintenance log %d: %w", l.LogID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) DeleteLog(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&model.MaintenanceLog{}, "log_id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete maintenance log %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpsertLog writes the weekly inspection row for one (equipment, work_week)
// pair, creating it on first save and overwriting it on re-submission.
// Last writer wins; routine workflows keep at most one row per pair.
func (s *gormStore) UpsertLog(ctx context.Context, equipmentID int, workWeek string, entry LogEntry) (*model.MaintenanceLog, error) {
	var saved model.MaintenanceLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		saved, err = upsertLogTx(tx, equipmentID, workWeek, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// SaveWeeklyLogs transactionally upserts one row per equipment for the given
// week. A failure anywhere rolls back the whole submission so a weekly form
// can never be half-saved.
func (s *gormStore) SaveWeeklyLogs(ctx context.Context, workWeek string, entries map[int]LogEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for equipmentID, entry := range entries {
			if _, err := upsertLogTx(tx, equipmentID, workWeek, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertLogTx(tx *gorm.DB, equipmentID int, workWeek string, entry LogEntry) (model.MaintenanceLog, error) {
	var existing model.MaintenanceLog
	err := tx.Where("equipment_id = ? AND work_week = ?", equipmentID, workWeek).
		Order("log_id").First(&existing).Error

	switch {
	case err == nil:
		existing.CheckDate = entry.CheckDate
		existing.UserName = entry.UserName
		existing.OilLevelOK = entry.OilLevelOK
		existing.OilConditionOK = entry.OilConditionOK
		existing.OilFilterOK = entry.OilFilterOK
		existing.PumpTemp = entry.PumpTemp
		existing.Service = entry.Service
		existing.ServiceNotes = entry.ServiceNotes
		if existing.Service == "" {
			existing.Service = model.ServiceNoneRequired
		}
		if err := tx.Save(&existing).Error; err != nil {
			return model.MaintenanceLog{}, fmt.Errorf("failed to update log for equipment %d week %s: %w", equipmentID, workWeek, err)
		}
		return existing, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		newLog := model.MaintenanceLog{
			EquipmentID:    equipmentID,
			WorkWeek:       workWeek,
			CheckDate:      entry.CheckDate,
			UserName:       entry.UserName,
			OilLevelOK:     entry.OilLevelOK,
			OilConditionOK: entry.OilConditionOK,
			OilFilterOK:    entry.OilFilterOK,
			PumpTemp:       entry.PumpTemp,
			Service:        entry.Service,
			ServiceNotes:   entry.ServiceNotes,
		}
		if newLog.Service == "" {
			newLog.Service = model.ServiceNoneRequired
		}
		if err := tx.Create(&newLog).Error; err != nil {
			return model.MaintenanceLog{}, fmt.Errorf("failed to create log for equipment %d week %s: %w", equipmentID, workWeek, err)
		}
		return newLog, nil

	default:
		return model.MaintenanceLog{}, fmt.Errorf("failed to look up log for equipment %d week %s: %w", equipmentID, workWeek, err)
	}
}

// equipmentDropdownFields are the only columns exposed through the distinct
// values endpoint.
var equipmentDropdownFields = map[string]bool{
	"pump_model": true,
	"oil_type":   true,
	"pump_owner": true,
}

func (s *gormStore) DistinctEquipmentValues(ctx context.Context, field string) ([]string, error) {
	if !equipmentDropdownFields[field] {
		return nil, fmt.Errorf("field %q is not a dropdown field", field)
	}
	var values []string
	err := s.db.WithContext(ctx).Model(&model.Equipment{}).
		Distinct(field).
		Where(field+" IS NOT NULL AND "+field+" <> ''").
		Order(field).
		Pluck(field, &values).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read distinct %s values: %w", field, err)
	}
	return values, nil
}

func (s *gormStore) DistinctWorkWeeks(ctx context.Context) ([]string, error) {
	var weeks []string
	err := s.db.WithContext(ctx).Model(&model.MaintenanceLog{}).
		Distinct("work_week").
		Where("work_week IS NOT NULL AND work_week <> ''").
		Order("work_week DESC").
		Pluck("work_week", &weeks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read distinct work weeks: %w", err)
	}
	return weeks, nil
}

// ReplaceAll swaps the entire dataset for the given one inside a single
// transaction. Used by restore; an invalid snapshot leaves the database
// untouched.
func (s *gormStore) ReplaceAll(ctx context.Context, equipment []model.Equipment, logs []model.MaintenanceLog) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.MaintenanceLog{}).Error; err != nil {
			return fmt.Errorf("failed to clear maintenance logs: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&model.Equipment{}).Error; err != nil {
			return fmt.Errorf("failed to clear equipment: %w", err)
		}
		if len(equipment) > 0 {
			if err := tx.CreateInBatches(equipment, 100).Error; err != nil {
				return fmt.Errorf("failed to restore equipment: %w", err)
			}
		}
		if len(logs) > 0 {
			if err := tx.CreateInBatches(logs, 100).Error; err != nil {
				return fmt.Errorf("failed to restore maintenance logs: %w", err)
			}
		}
		return nil
	})
}

func (s *gormStore) Counts(ctx context.Context) (int64, int64, error) {
	var equipmentCount, logCount int64
	if err := s.db.WithContext(ctx).Model(&model.Equipment{}).Count(&equipmentCount).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count equipment: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&model.MaintenanceLog{}).Count(&logCount).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count maintenance logs: %w", err)
	}
	return equipmentCount, logCount, nil
}
