package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ManufacturingOrder struct {
	MoNo         string          `gorm:"primaryKey;size:64" json:"mo_no"`
	SoNo         string          `gorm:"index;size:64" json:"so_no"`
	MaterialId   string          `gorm:"index;size:64" json:"material_id"`
	MaterialName string          `gorm:"size:255" json:"material_name"`
	CustomerId   string          `gorm:"size:64" json:"customer_id"`
	QtyPlan      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_plan"`
	Status       OrderStatus     `gorm:"size:20;not null;default:'Plan'" json:"status"`
	PromiseDate  string          `gorm:"size:32" json:"promise_date"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
