package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BomEdge is a directed edge in the materials graph. No cycle check is
// performed on write.
type BomEdge struct {
	ParentMaterialId string          `gorm:"primaryKey;size:64" json:"parent_material_id"`
	ChildMaterialId  string          `gorm:"primaryKey;size:64" json:"child_material_id"`
	QtyPerParent     decimal.Decimal `gorm:"type:decimal(20,4);default:1" json:"qty_per_parent"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BomEdge) TableName() string {
	return "bom_edges"
}
