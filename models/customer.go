package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	CustomerId string          `gorm:"primaryKey;size:64" json:"customer_id"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Tier       string          `gorm:"size:20" json:"tier"`
	TierWeight decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"tier_weight"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
