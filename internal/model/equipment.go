package model

// Equipment represents a tracked vacuum pump or apparatus.
//
// EquipmentID is assigned by the caller, not the database; the store checks
// for collisions before insert.
type Equipment struct {
	EquipmentID   int    `gorm:"column:equipment_id;primaryKey;autoIncrement:false" json:"equipment_id"`
	EquipmentName string `gorm:"size:100;not null" json:"equipment_name"`
	PumpModel     string `gorm:"size:100" json:"pump_model"`
	OilType       string `gorm:"size:100" json:"oil_type"`
	PumpOwner     string `gorm:"size:100" json:"pump_owner"`
	Status        string `gorm:"size:50;default:active" json:"status"`
	Notes         string `json:"notes"`

	// Associations
	MaintenanceLogs []MaintenanceLog `gorm:"foreignKey:EquipmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the singular table name used by the historical schema.
func (Equipment) TableName() string { return "equipment" }
