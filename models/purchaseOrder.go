package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrder struct {
	PoNo         string          `gorm:"primaryKey;size:64" json:"po_no"`
	PoLineNo     int             `gorm:"primaryKey" json:"po_line_no"`
	MaterialId   string          `gorm:"index;size:64" json:"material_id"`
	SupplierId   string          `gorm:"size:64" json:"supplier_id"`
	SupplierName string          `gorm:"size:255" json:"supplier_name"`
	QtyOrdered   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_ordered"`
	QtyRemaining decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_remaining"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	PromisedDate string          `gorm:"size:32" json:"promised_date"`
	IsConfirmed  int             `gorm:"default:0" json:"is_confirmed"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
