package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/erp_sync/config"
	"bitbucket.org/mmdatafocus/erp_sync/kingdeesync"
)

func main() {
	out := flag.String("out", "erp_snapshot.xlsx", "Output spreadsheet path")
	flag.Parse()

	if strings.TrimSpace(*out) == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized")
		os.Exit(1)
	}

	if err := kingdeesync.ExportSnapshot(db, *out); err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("snapshot written to %s\n", *out)
}
