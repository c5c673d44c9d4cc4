package kingdeesync

import (
	"encoding/json"
	"errors"
	"testing"

	"bitbucket.org/mmdatafocus/erp_sync/models"
)

func TestStatusFromCode(t *testing.T) {
	cases := []struct {
		code string
		want models.OrderStatus
	}{
		{"A", models.OrderStatusPlan},
		{"B", models.OrderStatusReleased},
		{"C", models.OrderStatusInProgress},
		{"D", models.OrderStatusCompleted},
		{"Z", models.OrderStatusClosed},
		{"X", models.OrderStatusPlan},
		{"", models.OrderStatusPlan},
		{" C ", models.OrderStatusInProgress},
	}
	for _, c := range cases {
		if got := statusFromCode(c.code); got != c.want {
			t.Fatalf("statusFromCode(%q) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestMaterial_Defaults(t *testing.T) {
	b := newBatch()
	m, err := b.material(Row{"M001", nil, "", nil})
	if err != nil {
		t.Fatalf("material: %v", err)
	}
	if m.MaterialId != "M001" {
		t.Fatalf("MaterialId = %q", m.MaterialId)
	}
	if m.Name != "Unknown Material" || m.Category != "Uncategorized" || m.Unit != "PCS" {
		t.Fatalf("defaults not applied: %+v", m)
	}
}

func TestMaterial_ShortRowRejected(t *testing.T) {
	b := newBatch()
	if _, err := b.material(Row{"M001", "Bolt", "Hardware"}); !errors.Is(err, errShortRow) {
		t.Fatalf("expected errShortRow, got %v", err)
	}
}

func TestSyntheticKeys_CountPerPrefixWithinBatch(t *testing.T) {
	b := newBatch()
	m1, _ := b.material(Row{nil, "A", "", ""})
	m2, _ := b.material(Row{"", "B", "", ""})
	m3, _ := b.material(Row{"M007", "C", "", ""})
	m4, _ := b.material(Row{nil, "D", "", ""})
	if m1.MaterialId != "MAT_1" || m2.MaterialId != "MAT_2" {
		t.Fatalf("synthetic keys: %q, %q", m1.MaterialId, m2.MaterialId)
	}
	if m3.MaterialId != "M007" {
		t.Fatalf("real key overridden: %q", m3.MaterialId)
	}
	if m4.MaterialId != "MAT_3" {
		t.Fatalf("counter should skip real-keyed rows: %q", m4.MaterialId)
	}

	// A fresh batch restarts the counters.
	b2 := newBatch()
	m5, _ := b2.material(Row{nil, "E", "", ""})
	if m5.MaterialId != "MAT_1" {
		t.Fatalf("new batch should restart at MAT_1, got %q", m5.MaterialId)
	}
}

func TestCustomer_TierDefault(t *testing.T) {
	b := newBatch()
	c, err := b.customer(Row{"", nil})
	if err != nil {
		t.Fatalf("customer: %v", err)
	}
	if c.CustomerId != "CUST_1" {
		t.Fatalf("CustomerId = %q", c.CustomerId)
	}
	if c.Name != "Unknown Customer" || c.Tier != "Tier 2" {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestManufacturingOrder_BlankKeyDropped(t *testing.T) {
	b := newBatch()
	if _, err := b.manufacturingOrder(Row{"", "SO1", "M001", "Bolt", json.Number("5"), "2026-09-01", "C"}); !errors.Is(err, errMissingKey) {
		t.Fatalf("expected errMissingKey, got %v", err)
	}
}

func TestManufacturingOrder_Normalized(t *testing.T) {
	b := newBatch()
	mo, err := b.manufacturingOrder(Row{"MO001", "SO1", "M001", "Bolt", json.Number("12.5"), "2026-09-01", "C"})
	if err != nil {
		t.Fatalf("manufacturingOrder: %v", err)
	}
	if mo.MoNo != "MO001" || mo.SoNo != "SO1" || mo.MaterialId != "M001" {
		t.Fatalf("keys: %+v", mo)
	}
	if mo.QtyPlan.String() != "12.5" {
		t.Fatalf("QtyPlan = %s", mo.QtyPlan)
	}
	if mo.Status != models.OrderStatusInProgress {
		t.Fatalf("Status = %q", mo.Status)
	}
	if mo.PromiseDate != "2026-09-01" {
		t.Fatalf("PromiseDate = %q", mo.PromiseDate)
	}
}

func TestPurchaseOrder_RemainingAndConfirmation(t *testing.T) {
	b := newBatch()
	po, err := b.purchaseOrder(Row{"PO001", "M001", json.Number("100"), "2026-09-15", "2026-08-01"})
	if err != nil {
		t.Fatalf("purchaseOrder: %v", err)
	}
	if po.PoLineNo != 1 {
		t.Fatalf("PoLineNo = %d", po.PoLineNo)
	}
	if !po.QtyRemaining.Equal(po.QtyOrdered) {
		t.Fatalf("QtyRemaining %s should equal QtyOrdered %s", po.QtyRemaining, po.QtyOrdered)
	}
	if po.IsConfirmed != 1 {
		t.Fatalf("confirm date present, IsConfirmed = %d", po.IsConfirmed)
	}

	unconfirmed, err := b.purchaseOrder(Row{"PO002", "M001", json.Number("10"), "2026-09-15", nil})
	if err != nil {
		t.Fatalf("purchaseOrder: %v", err)
	}
	if unconfirmed.IsConfirmed != 0 {
		t.Fatalf("null confirm date, IsConfirmed = %d", unconfirmed.IsConfirmed)
	}
}

func TestBomEdge_ZeroQtyBecomesOne(t *testing.T) {
	b := newBatch()
	edge, err := b.bomEdge(Row{"M001", "M002", json.Number("0")})
	if err != nil {
		t.Fatalf("bomEdge: %v", err)
	}
	if edge.QtyPerParent.String() != "1" {
		t.Fatalf("QtyPerParent = %s", edge.QtyPerParent)
	}
	if _, err := b.bomEdge(Row{"M001", "", json.Number("2")}); !errors.Is(err, errMissingKey) {
		t.Fatalf("blank child should be errMissingKey, got %v", err)
	}
}

func TestSalesOrderLine_SequencedPerDocument(t *testing.T) {
	b := newBatch()
	seq := newLineSequencer()
	row := func(soNo string, qty string) Row {
		return Row{soNo, "2026-08-01", "C001", "Acme", "M001", "Bolt", json.Number(qty), json.Number("3.5"), json.Number("35"), "2026-09-01", "B"}
	}

	first, err := b.salesOrderLine(row("SO1", "10"), seq)
	if err != nil {
		t.Fatalf("salesOrderLine: %v", err)
	}
	second, _ := b.salesOrderLine(row("SO1", "20"), seq)
	other, _ := b.salesOrderLine(row("SO2", "5"), seq)

	if first.SoLineNo != 1 || second.SoLineNo != 2 || other.SoLineNo != 1 {
		t.Fatalf("line numbers = %d, %d, %d", first.SoLineNo, second.SoLineNo, other.SoLineNo)
	}
	if !first.QtyRemaining.Equal(first.QtyOrdered) {
		t.Fatalf("QtyRemaining %s should equal QtyOrdered %s", first.QtyRemaining, first.QtyOrdered)
	}
	if first.Status != models.OrderStatusReleased {
		t.Fatalf("Status = %q", first.Status)
	}
	if _, err := b.salesOrderLine(row("", "1"), seq); !errors.Is(err, errMissingKey) {
		t.Fatalf("blank SO number should be errMissingKey, got %v", err)
	}
}

func TestSupplier_EnhancedDefaults(t *testing.T) {
	b := newBatch()
	s, err := b.supplier(Row{"S001", "Fast Metals"})
	if err != nil {
		t.Fatalf("supplier: %v", err)
	}
	if s.LeadTimeDays != 30 {
		t.Fatalf("LeadTimeDays = %d", s.LeadTimeDays)
	}
	if s.OtdRate3m.String() != "0.95" || s.OtdRate12m.String() != "0.95" {
		t.Fatalf("OTD defaults: %s / %s", s.OtdRate3m, s.OtdRate12m)
	}
	if s.ExpeditePremium.String() != "0.15" {
		t.Fatalf("ExpeditePremium = %s", s.ExpeditePremium)
	}
}

func TestWorkCenter_CapacityDefaults(t *testing.T) {
	b := newBatch()
	wc, err := b.workCenter(Row{"", nil})
	if err != nil {
		t.Fatalf("workCenter: %v", err)
	}
	if wc.WorkcenterId != "WC_1" || wc.Name != "Unknown Work Center" || wc.Type != "General" {
		t.Fatalf("defaults not applied: %+v", wc)
	}
	if wc.DailyCapacityHours.String() != "160" || wc.ShiftCount != 2 {
		t.Fatalf("capacity defaults: %s h, %d shifts", wc.DailyCapacityHours, wc.ShiftCount)
	}
	if wc.OeeAvg.String() != "0.85" || wc.RtyAvg.String() != "0.92" {
		t.Fatalf("performance defaults: %s / %s", wc.OeeAvg, wc.RtyAvg)
	}
}

func TestDecimalAt_GarbageIsZero(t *testing.T) {
	row := Row{"abc", nil, json.Number("7.25")}
	if !decimalAt(row, 0).IsZero() {
		t.Fatal("non-numeric string should read as zero")
	}
	if !decimalAt(row, 1).IsZero() {
		t.Fatal("null should read as zero")
	}
	if !decimalAt(row, 5).IsZero() {
		t.Fatal("out-of-range index should read as zero")
	}
	if got := decimalAt(row, 2).String(); got != "7.25" {
		t.Fatalf("decimalAt = %s", got)
	}
}
