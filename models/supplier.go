package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Supplier struct {
	SupplierId      string          `gorm:"primaryKey;size:64" json:"supplier_id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	LeadTimeDays    int             `gorm:"default:0" json:"lead_time_days"`
	OtdRate3m       decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"otd_rate_3m"`
	OtdRate12m      decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"otd_rate_12m"`
	ExpeditePremium decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"expedite_premium"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
