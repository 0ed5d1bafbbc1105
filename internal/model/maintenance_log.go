package model

import "time"

// MaintenanceLog is one weekly inspection record for one piece of equipment.
//
// WorkWeek carries the ISO-8601 "YYYY-WWnn" label assigned at creation time.
// Backfilled rows may carry a manually corrected label; it is never recomputed
// from CheckDate after the fact.
type MaintenanceLog struct {
	LogID       int       `gorm:"column:log_id;primaryKey;autoIncrement" json:"log_id"`
	EquipmentID int       `gorm:"not null;index" json:"equipment_id"`
	WorkWeek    string    `gorm:"size:10;index" json:"work_week"`
	CheckDate   time.Time `gorm:"not null" json:"check_date"`
	UserName    string    `gorm:"size:100" json:"user_name"`

	OilLevelOK     bool `gorm:"column:oil_level_ok;default:false" json:"oil_level_ok"`
	OilConditionOK bool `gorm:"column:oil_condition_ok;default:false" json:"oil_condition_ok"`
	OilFilterOK    bool `gorm:"column:oil_filter_ok;default:false" json:"oil_filter_ok"`

	// PumpTemp is nil when the temperature was not measured or the submitted
	// text did not parse as a finite number.
	PumpTemp *float64 `json:"pump_temp"`

	// Service is an open vocabulary: the standard options plus arbitrary
	// custom text. Alert matching is exact-string only.
	Service      string `gorm:"size:50;default:None Required" json:"service"`
	ServiceNotes string `json:"service_notes"`

	// Associations
	Equipment Equipment `gorm:"foreignKey:EquipmentID;references:EquipmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the singular table name used by the historical schema.
func (MaintenanceLog) TableName() string { return "maintenance_log" }

// ServiceNoneRequired is the default service value for a routine check.
const ServiceNoneRequired = "None Required"

// StandardServices are the options offered by the entry form. The data layer
// accepts any string; this list exists for presentation only.
var StandardServices = []string{
	ServiceNoneRequired,
	"Add Oil",
	"Drain & Replace Oil",
	"Replace Filter",
	"Clean Pump",
	"Major Service",
}
