package kingdeesync

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsert writes one normalized record keyed by its natural key,
// replacing any existing row in full. Idempotent across runs.
func upsert(db *gorm.DB, record any) error {
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(record).Error
}

type enhanceStep struct {
	name string
	sql  string
}

// Backfills for rows written before a field existed. Every WHERE clause
// guards on the field still holding its default; a value an operator
// has set is never overwritten.
var enhanceSteps = []enhanceStep{
	{
		name: "purchase order supplier defaults",
		sql: `UPDATE purchase_orders
			SET supplier_id = 'DEFAULT_SUPPLIER',
			    supplier_name = 'Default Supplier',
			    unit_price = CASE WHEN qty_ordered > 0 THEN amount / qty_ordered ELSE 0 END,
			    is_confirmed = 1
			WHERE supplier_id IS NULL OR supplier_id = ''`,
	},
	{
		name: "inventory availability",
		sql: `UPDATE inventory
			SET qty_available = qty_on_hand - COALESCE(qty_allocated, 0)
			WHERE qty_available IS NULL OR qty_available = 0`,
	},
	{
		name: "customer tier weights",
		sql: `UPDATE customers
			SET tier_weight = CASE
				WHEN tier = 'Tier 1' THEN 1.5
				WHEN tier = 'Tier 2' THEN 1.2
				ELSE 1.0
			END
			WHERE tier_weight IS NULL OR tier_weight = 0`,
	},
	{
		name: "material lead times",
		sql: `UPDATE materials
			SET lead_time_days = 30
			WHERE lead_time_days IS NULL OR lead_time_days = 0`,
	},
	{
		name: "supplier lead times",
		sql: `UPDATE suppliers
			SET lead_time_days = 30
			WHERE lead_time_days IS NULL OR lead_time_days = 0`,
	},
}

// EnhanceExistingData runs the one-time backfill pass over previously
// synced rows.
func EnhanceExistingData(db *gorm.DB, logger *logrus.Logger) error {
	for _, step := range enhanceSteps {
		result := db.Exec(step.sql)
		if result.Error != nil {
			return result.Error
		}
		logger.WithFields(logrus.Fields{
			"step":    step.name,
			"updated": result.RowsAffected,
		}).Info("enhanced existing data")
	}
	return nil
}
