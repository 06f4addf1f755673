package models

import "time"

// InspectionRow mirrors the inspections table.
type InspectionRow struct {
	ID         string     `gorm:"primaryKey;type:varchar(64)"`
	Location   string     `gorm:"type:varchar(255);not null"`
	Technician string     `gorm:"type:varchar(255);not null"`
	Findings   string     `gorm:"type:text;not null"`
	Status     string     `gorm:"type:varchar(20);not null;default:pending;index"`
	CreatedAt  time.Time  `gorm:"not null;index"`
	SyncedAt   *time.Time `gorm:"column:synced_at"`
}

func (InspectionRow) TableName() string {
	return "inspections"
}
