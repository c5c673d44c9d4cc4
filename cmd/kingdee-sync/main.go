package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/erp_sync/config"
	"bitbucket.org/mmdatafocus/erp_sync/kingdeesync"
	"bitbucket.org/mmdatafocus/erp_sync/models"
)

func main() {
	all := flag.Bool("all", false, "Sync every entity kind")
	material := flag.Bool("material", false, "Sync materials")
	customer := flag.Bool("customer", false, "Sync customers")
	mo := flag.Bool("mo", false, "Sync manufacturing orders")
	inventory := flag.Bool("inventory", false, "Sync inventory")
	po := flag.Bool("po", false, "Sync purchase orders")
	bom := flag.Bool("bom", false, "Sync BOM edges")
	salesOrders := flag.Bool("sales-orders", false, "Sync sales orders")
	suppliers := flag.Bool("suppliers", false, "Sync suppliers")
	workcenters := flag.Bool("workcenters", false, "Sync work centers")
	enhance := flag.Bool("enhance", false, "Run the enhancement backfill pass")
	initDB := flag.Bool("init-db", false, "Create/upgrade the database schema before syncing")
	export := flag.String("export", "", "Optional: write an .xlsx snapshot of the store to this path after syncing")
	flag.Parse()

	logger := config.GetLogger()

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	if *initDB {
		logger.Info("initializing database schema")
		models.MigrateTable()
		logger.Info("database schema ready")
	}

	cfg, err := config.LoadKingdeeConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	anySelected := *material || *customer || *mo || *inventory || *po || *bom ||
		*salesOrders || *suppliers || *workcenters || *enhance

	mod := kingdeesync.DefaultModules()
	if !*all && anySelected {
		mod = kingdeesync.Modules{
			Materials:           *material,
			Customers:           *customer,
			ManufacturingOrders: *mo,
			Inventory:           *inventory,
			PurchaseOrders:      *po,
			Bom:                 *bom,
			SalesOrders:         *salesOrders,
			Suppliers:           *suppliers,
			WorkCenters:         *workcenters,
			Enhance:             *enhance,
		}
	}

	client := kingdeesync.NewClient(cfg, logger)
	syncer := kingdeesync.NewSyncer(client, db, logger)

	summary, err := syncer.Run(context.Background(), mod)
	if err != nil {
		if errors.Is(err, kingdeesync.ErrLoginFailed) {
			fmt.Fprintln(os.Stderr, "login failed; nothing was synced")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	fmt.Printf("synced %d records in %s (run %s)\n", summary.Total, summary.Duration.Round(time.Millisecond), summary.RunId)

	if *export != "" {
		if err := kingdeesync.ExportSnapshot(db, *export); err != nil {
			fmt.Fprintf(os.Stderr, "snapshot export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("snapshot written to %s\n", *export)
	}
}
