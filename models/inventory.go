package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord keeps one row per material, last write wins.
type InventoryRecord struct {
	MaterialId   string          `gorm:"primaryKey;size:64" json:"material_id"`
	QtyOnHand    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_on_hand"`
	QtyAllocated decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_allocated"`
	QtyAvailable decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_available"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (InventoryRecord) TableName() string {
	return "inventory"
}
