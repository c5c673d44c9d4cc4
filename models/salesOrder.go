package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderLine is one line of a (possibly multi-line) sales order.
// The remote query API flattens orders to one row per line with no line
// number; SoLineNo is assigned locally in arrival order.
type SalesOrderLine struct {
	SoNo         string          `gorm:"primaryKey;size:64" json:"so_no"`
	SoLineNo     int             `gorm:"primaryKey" json:"so_line_no"`
	OrderDate    string          `gorm:"size:32" json:"order_date"`
	CustomerId   string          `gorm:"index;size:64" json:"customer_id"`
	CustomerName string          `gorm:"size:255" json:"customer_name"`
	MaterialId   string          `gorm:"index;size:64" json:"material_id"`
	MaterialName string          `gorm:"size:255" json:"material_name"`
	QtyOrdered   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_ordered"`
	QtyRemaining decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qty_remaining"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Revenue      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"revenue"`
	PromiseDate  string          `gorm:"size:32" json:"promise_date"`
	Status       OrderStatus     `gorm:"size:20;not null;default:'Plan'" json:"status"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SalesOrderLine) TableName() string {
	return "sales_order_lines"
}
