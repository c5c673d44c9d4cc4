package kingdeesync

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/erp_sync/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sync_test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Material{},
		&models.Customer{},
		&models.ManufacturingOrder{},
		&models.InventoryRecord{},
		&models.PurchaseOrder{},
		&models.BomEdge{},
		&models.SalesOrderLine{},
		&models.Supplier{},
		&models.WorkCenter{},
		&models.SyncLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeKingdee serves the login and query endpoints. Query responses are
// keyed by form id; unknown forms return an empty list, forms in fail
// return 500.
type fakeKingdee struct {
	loginOK    bool
	loginDelay time.Duration
	loginCalls int
	queryCalls int
	forms      map[string]string
	fail       map[string]bool
}

func (f *fakeKingdee) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		f.loginCalls++
		if f.loginDelay > 0 {
			time.Sleep(f.loginDelay)
		}
		result := 0
		if f.loginOK {
			result = 1
		}
		json.NewEncoder(w).Encode(map[string]any{"LoginResultType": result})
	})
	mux.HandleFunc(queryPath, func(w http.ResponseWriter, r *http.Request) {
		f.queryCalls++
		var payload struct {
			Data struct {
				FormId string `json:"FormId"`
			} `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode query payload: %v", err)
			http.Error(w, "bad payload", http.StatusBadRequest)
			return
		}
		if f.fail[payload.Data.FormId] {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		body, ok := f.forms[payload.Data.FormId]
		if !ok {
			body = "[]"
		}
		io.WriteString(w, body)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestSyncer(t *testing.T, fake *fakeKingdee, db *gorm.DB) *Syncer {
	t.Helper()
	srv := fake.server(t)
	client := NewClient(testConfig(srv.URL), quietLogger())
	return NewSyncer(client, db, quietLogger())
}

func syncLogs(t *testing.T, db *gorm.DB) []models.SyncLog {
	t.Helper()
	var logs []models.SyncLog
	if err := db.Order("id").Find(&logs).Error; err != nil {
		t.Fatalf("read sync logs: %v", err)
	}
	return logs
}

func TestRun_LoginFailureAbortsBeforeAnyQuery(t *testing.T) {
	db := newTestDB(t)
	fake := &fakeKingdee{loginOK: false}
	s := newTestSyncer(t, fake, db)

	_, err := s.Run(context.Background(), DefaultModules())
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("expected ErrLoginFailed, got %v", err)
	}
	if fake.queryCalls != 0 {
		t.Fatalf("no queries should run after failed login, got %d", fake.queryCalls)
	}
	if logs := syncLogs(t, db); len(logs) != 0 {
		t.Fatalf("failed login must not write sync logs, got %d", len(logs))
	}
}

func TestRun_IdempotentAcrossRuns(t *testing.T) {
	db := newTestDB(t)
	fake := &fakeKingdee{
		loginOK: true,
		forms: map[string]string{
			"BD_Material": `[["M001","Bolt","Hardware","PCS"],["M002","Nut","Hardware","PCS"]]`,
		},
	}
	s := newTestSyncer(t, fake, db)
	mod := Modules{Materials: true}

	for run := 1; run <= 2; run++ {
		summary, err := s.Run(context.Background(), mod)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if summary.Total != 2 {
			t.Fatalf("run %d total = %d", run, summary.Total)
		}
	}

	var count int64
	if err := db.Model(&models.Material{}).Count(&count).Error; err != nil {
		t.Fatalf("count materials: %v", err)
	}
	if count != 2 {
		t.Fatalf("re-running the same sync must not duplicate rows, got %d", count)
	}

	var m models.Material
	if err := db.First(&m, "material_id = ?", "M001").Error; err != nil {
		t.Fatalf("read material: %v", err)
	}
	if m.Name != "Bolt" || m.Category != "Hardware" {
		t.Fatalf("material fields: %+v", m)
	}

	logs := syncLogs(t, db)
	if len(logs) != 2 {
		t.Fatalf("expected one sync log per run, got %d", len(logs))
	}
	if logs[0].RunId == logs[1].RunId {
		t.Fatal("each run should get its own run id")
	}
	for _, l := range logs {
		if l.Status != models.SyncStatusSuccess || l.RecordCount != 2 || l.EntityKind != EntityMaterials {
			t.Fatalf("unexpected log row: %+v", l)
		}
		if l.TriggeredBy != models.SyncTriggeredManual {
			t.Fatalf("TriggeredBy = %q", l.TriggeredBy)
		}
	}
}

func TestRun_UpsertReplacesChangedRows(t *testing.T) {
	db := newTestDB(t)
	fake := &fakeKingdee{
		loginOK: true,
		forms:   map[string]string{"BD_Material": `[["M001","Bolt","Hardware","PCS"]]`},
	}
	s := newTestSyncer(t, fake, db)
	mod := Modules{Materials: true}

	if _, err := s.Run(context.Background(), mod); err != nil {
		t.Fatalf("first run: %v", err)
	}

	fake.forms["BD_Material"] = `[["M001","Hex Bolt","Fasteners","PCS"]]`
	if _, err := s.Run(context.Background(), mod); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var m models.Material
	if err := db.First(&m, "material_id = ?", "M001").Error; err != nil {
		t.Fatalf("read material: %v", err)
	}
	if m.Name != "Hex Bolt" || m.Category != "Fasteners" {
		t.Fatalf("row not replaced: %+v", m)
	}
}

func TestRun_MalformedRowSkippedOthersLand(t *testing.T) {
	db := newTestDB(t)
	fake := &fakeKingdee{
		loginOK: true,
		forms: map[string]string{
			"BD_Material": `[["M001","Bolt","Hardware","PCS"],["M002","Nut"],["M003","Washer","Hardware","PCS"]]`,
		},
	}
	s := newTestSyncer(t, fake, db)

	summary, err := s.Run(context.Background(), Modules{Materials: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Total != 2 {
		t.Fatalf("total = %d, want the short row excluded", summary.Total)
	}

	var count int64
	db.Model(&models.Material{}).Count(&count)
	if count != 2 {
		t.Fatalf("materials stored = %d", count)
	}

	logs := syncLogs(t, db)
	if len(logs) != 1 || logs[0].Status != models.SyncStatusSuccess || logs[0].RecordCount != 2 {
		t.Fatalf("unexpected logs: %+v", logs)
	}
}

func TestRun_EntityFailureIsolated(t *testing.T) {
	db := newTestDB(t)
	fake := &fakeKingdee{
		loginOK: true,
		forms:   map[string]string{"BD_Material": `[["M001","Bolt","Hardware","PCS"]]`},
		fail:    map[string]bool{"BD_Customer": true},
	}
	s := newTestSyncer(t, fake, db)

	summary, err := s.Run(context.Background(), Modules{Materials: true, Customers: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Total != 1 {
		t.Fatalf("total = %d", summary.Total)
	}

	logs := syncLogs(t, db)
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	byKind := make(map[string]models.SyncLog)
	for _, l := range logs {
		byKind[l.EntityKind] = l
	}
	if l := byKind[EntityMaterials]; l.Status != models.SyncStatusSuccess || l.RecordCount != 1 {
		t.Fatalf("materials log: %+v", l)
	}
	if l := byKind[EntityCustomers]; l.Status != models.SyncStatusFailure || l.RecordCount != 0 {
		t.Fatalf("customers log: %+v", l)
	}
}

func TestRun_SalesOrderLinesSequencedAndStored(t *testing.T) {
	db := newTestDB(t)
	fake := &fakeKingdee{
		loginOK: true,
		forms: map[string]string{
			"SAL_SaleOrder": `{"Result":[
				["SO1","2026-08-01","C001","Acme","M001","Bolt",10,2.5,25,"2026-09-01","B"],
				["SO1","2026-08-01","C001","Acme","M002","Nut",4,1,4,"2026-09-01","B"],
				["SO2","2026-08-02","C002","Globex","M001","Bolt",7,2.5,17.5,"2026-09-10","C"]
			]}`,
		},
	}
	s := newTestSyncer(t, fake, db)

	summary, err := s.Run(context.Background(), Modules{SalesOrders: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("total = %d", summary.Total)
	}

	var lines []models.SalesOrderLine
	if err := db.Order("so_no, so_line_no").Find(&lines).Error; err != nil {
		t.Fatalf("read lines: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("lines stored = %d", len(lines))
	}
	if lines[0].SoNo != "SO1" || lines[0].SoLineNo != 1 ||
		lines[1].SoNo != "SO1" || lines[1].SoLineNo != 2 ||
		lines[2].SoNo != "SO2" || lines[2].SoLineNo != 1 {
		t.Fatalf("line numbering wrong: %+v", lines)
	}
	if !lines[2].QtyRemaining.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("QtyRemaining = %s", lines[2].QtyRemaining)
	}
	if lines[2].Status != models.OrderStatusInProgress {
		t.Fatalf("Status = %q", lines[2].Status)
	}
}

func TestEnhanceExistingData_OnlyTouchesDefaults(t *testing.T) {
	db := newTestDB(t)

	seed := []any{
		&models.Supplier{SupplierId: "S1", Name: "Tuned", LeadTimeDays: 45},
		&models.Supplier{SupplierId: "S2", Name: "Fresh", LeadTimeDays: 0},
		&models.Material{MaterialId: "M1", Name: "Bolt", LeadTimeDays: 0},
		&models.Customer{CustomerId: "C1", Name: "Acme", Tier: "Tier 1"},
		&models.InventoryRecord{
			MaterialId:   "M1",
			QtyOnHand:    decimal.NewFromInt(10),
			QtyAllocated: decimal.NewFromInt(3),
		},
		&models.PurchaseOrder{
			PoNo: "PO1", PoLineNo: 1, MaterialId: "M1",
			QtyOrdered:   decimal.NewFromInt(4),
			QtyRemaining: decimal.NewFromInt(4),
			Amount:       decimal.NewFromInt(20),
		},
	}
	for _, rec := range seed {
		if err := db.Create(rec).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if err := EnhanceExistingData(db, quietLogger()); err != nil {
		t.Fatalf("enhance: %v", err)
	}

	var tuned, fresh models.Supplier
	db.First(&tuned, "supplier_id = ?", "S1")
	db.First(&fresh, "supplier_id = ?", "S2")
	if tuned.LeadTimeDays != 45 {
		t.Fatalf("operator-set lead time overwritten: %d", tuned.LeadTimeDays)
	}
	if fresh.LeadTimeDays != 30 {
		t.Fatalf("default lead time not backfilled: %d", fresh.LeadTimeDays)
	}

	var m models.Material
	db.First(&m, "material_id = ?", "M1")
	if m.LeadTimeDays != 30 {
		t.Fatalf("material lead time = %d", m.LeadTimeDays)
	}

	var c models.Customer
	db.First(&c, "customer_id = ?", "C1")
	if !c.TierWeight.Equal(decimal.NewFromFloat(1.5)) {
		t.Fatalf("Tier 1 weight = %s", c.TierWeight)
	}

	var inv models.InventoryRecord
	db.First(&inv, "material_id = ?", "M1")
	if !inv.QtyAvailable.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("qty_available = %s", inv.QtyAvailable)
	}

	var po models.PurchaseOrder
	db.First(&po, "po_no = ?", "PO1")
	if po.SupplierId != "DEFAULT_SUPPLIER" || po.IsConfirmed != 1 {
		t.Fatalf("po supplier defaults: %+v", po)
	}
	if !po.UnitPrice.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("unit_price = %s", po.UnitPrice)
	}
}

func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return ts
}

func TestSchemaFilters(t *testing.T) {
	now := mustParseDate(t, "2026-08-28")

	if got := schemas[EntityMaterials].Filter(now); got != "" {
		t.Fatalf("master data should be unfiltered, got %q", got)
	}
	want := "FDate >= '2026-05-30'"
	if got := schemas[EntitySalesOrders].Filter(now); got != want {
		t.Fatalf("sales order filter = %q, want %q", got, want)
	}
	for kind, schema := range schemas {
		if schema.MinFields() != len(schema.FieldKeys) {
			t.Fatalf("%s: MinFields %d != field keys %d", kind, schema.MinFields(), len(schema.FieldKeys))
		}
	}
}
