package models

import "time"

type Material struct {
	MaterialId   string    `gorm:"primaryKey;size:64" json:"material_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Category     string    `gorm:"size:100" json:"category"`
	Unit         string    `gorm:"size:20" json:"unit"`
	LeadTimeDays int       `gorm:"default:0" json:"lead_time_days"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
