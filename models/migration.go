package models

import (
	"log"

	"bitbucket.org/mmdatafocus/erp_sync/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Material{}, &Customer{},
		&ManufacturingOrder{}, &InventoryRecord{},
		&PurchaseOrder{}, &BomEdge{}, &SalesOrderLine{},
		&Supplier{}, &WorkCenter{},
		&SyncLog{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
