package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WorkCenter struct {
	WorkcenterId       string          `gorm:"primaryKey;size:64" json:"workcenter_id"`
	Name               string          `gorm:"size:255;not null" json:"name"`
	Type               string          `gorm:"size:50" json:"type"`
	DailyCapacityHours decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"daily_capacity_hours"`
	ShiftCount         int             `gorm:"default:0" json:"shift_count"`
	OeeAvg             decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"oee_avg"`
	RtyAvg             decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"rty_avg"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WorkCenter) TableName() string {
	return "workcenters"
}
