package kingdeesync

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bitbucket.org/mmdatafocus/erp_sync/models"
	"github.com/shopspring/decimal"
)

var (
	// errShortRow marks a row with fewer fields than its entity schema.
	// Such rows are skipped and excluded from the success count.
	errShortRow = errors.New("row shorter than entity schema")
	// errMissingKey marks a row whose natural key is blank and for
	// which no synthetic key applies (inventory, bom, documents).
	errMissingKey = errors.New("row natural key is empty")
)

// statusTable maps the remote single-letter document status codes.
// Unrecognized or missing codes fall back to Plan.
var statusTable = map[string]models.OrderStatus{
	"A": models.OrderStatusPlan,
	"B": models.OrderStatusReleased,
	"C": models.OrderStatusInProgress,
	"D": models.OrderStatusCompleted,
	"Z": models.OrderStatusClosed,
}

func statusFromCode(code string) models.OrderStatus {
	if s, ok := statusTable[strings.TrimSpace(code)]; ok {
		return s
	}
	return models.OrderStatusPlan
}

// Enhanced defaults applied when the source leaves fields blank.
var (
	defaultSupplierLeadTimeDays = 30
	defaultSupplierOtdRate      = decimal.NewFromFloat(0.95)
	defaultExpeditePremium      = decimal.NewFromFloat(0.15)
	defaultDailyCapacityHours   = decimal.NewFromInt(160)
	defaultShiftCount           = 2
	defaultOeeAvg               = decimal.NewFromFloat(0.85)
	defaultRtyAvg               = decimal.NewFromFloat(0.92)
)

// batch normalizes the rows of one entity-kind pass. It owns the
// per-prefix running counters behind synthetic keys, so counters reset
// on every pass.
type batch struct {
	seq map[string]int
}

func newBatch() *batch {
	return &batch{seq: make(map[string]int)}
}

func (b *batch) syntheticKey(prefix string) string {
	b.seq[prefix]++
	return fmt.Sprintf("%s_%d", prefix, b.seq[prefix])
}

func (b *batch) keyAt(row Row, i int, prefix string) string {
	if v := stringAt(row, i); v != "" {
		return v
	}
	return b.syntheticKey(prefix)
}

// stringAt reads a positional field as a trimmed string; nil and
// non-string scalars degrade gracefully.
func stringAt(row Row, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	switch v := row[i].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func stringOr(row Row, i int, def string) string {
	if v := stringAt(row, i); v != "" {
		return v
	}
	return def
}

// decimalAt parses a numeric field, treating null/blank/garbage as zero.
func decimalAt(row Row, i int) decimal.Decimal {
	s := stringAt(row, i)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func checkShape(row Row, schema EntitySchema) error {
	if len(row) < schema.MinFields() {
		return errShortRow
	}
	return nil
}

func (b *batch) material(row Row) (*models.Material, error) {
	if err := checkShape(row, schemas[EntityMaterials]); err != nil {
		return nil, err
	}
	return &models.Material{
		MaterialId: b.keyAt(row, 0, "MAT"),
		Name:       stringOr(row, 1, "Unknown Material"),
		Category:   stringOr(row, 2, "Uncategorized"),
		Unit:       stringOr(row, 3, "PCS"),
	}, nil
}

func (b *batch) customer(row Row) (*models.Customer, error) {
	if err := checkShape(row, schemas[EntityCustomers]); err != nil {
		return nil, err
	}
	return &models.Customer{
		CustomerId: b.keyAt(row, 0, "CUST"),
		Name:       stringOr(row, 1, "Unknown Customer"),
		Tier:       "Tier 2",
	}, nil
}

func (b *batch) manufacturingOrder(row Row) (*models.ManufacturingOrder, error) {
	if err := checkShape(row, schemas[EntityManufacturingOrders]); err != nil {
		return nil, err
	}
	moNo := stringAt(row, 0)
	if moNo == "" {
		return nil, errMissingKey
	}
	return &models.ManufacturingOrder{
		MoNo:         moNo,
		SoNo:         stringAt(row, 1),
		MaterialId:   stringAt(row, 2),
		MaterialName: stringAt(row, 3),
		// Customer linkage needs the sales-order join, not this form.
		CustomerId:  "",
		QtyPlan:     decimalAt(row, 4),
		Status:      statusFromCode(stringAt(row, 6)),
		PromiseDate: stringAt(row, 5),
	}, nil
}

func (b *batch) inventoryRecord(row Row) (*models.InventoryRecord, error) {
	if err := checkShape(row, schemas[EntityInventory]); err != nil {
		return nil, err
	}
	materialId := stringAt(row, 0)
	if materialId == "" {
		return nil, errMissingKey
	}
	return &models.InventoryRecord{
		MaterialId: materialId,
		QtyOnHand:  decimalAt(row, 1),
	}, nil
}

func (b *batch) purchaseOrder(row Row) (*models.PurchaseOrder, error) {
	if err := checkShape(row, schemas[EntityPurchaseOrders]); err != nil {
		return nil, err
	}
	poNo := stringAt(row, 0)
	if poNo == "" {
		return nil, errMissingKey
	}
	qty := decimalAt(row, 2)
	confirmed := 0
	if stringAt(row, 4) != "" {
		confirmed = 1
	}
	return &models.PurchaseOrder{
		PoNo:       poNo,
		PoLineNo:   1,
		MaterialId: stringAt(row, 1),
		QtyOrdered: qty,
		// Each run recomputes remaining from ordered; fulfillment is
		// not tracked across runs.
		QtyRemaining: qty,
		PromisedDate: stringAt(row, 3),
		IsConfirmed:  confirmed,
	}, nil
}

func (b *batch) bomEdge(row Row) (*models.BomEdge, error) {
	if err := checkShape(row, schemas[EntityBom]); err != nil {
		return nil, err
	}
	parentId := stringAt(row, 0)
	childId := stringAt(row, 1)
	if parentId == "" || childId == "" {
		return nil, errMissingKey
	}
	qty := decimalAt(row, 2)
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	return &models.BomEdge{
		ParentMaterialId: parentId,
		ChildMaterialId:  childId,
		QtyPerParent:     qty,
	}, nil
}

func (b *batch) salesOrderLine(row Row, seq *lineSequencer) (*models.SalesOrderLine, error) {
	if err := checkShape(row, schemas[EntitySalesOrders]); err != nil {
		return nil, err
	}
	soNo := stringAt(row, 0)
	if soNo == "" {
		return nil, errMissingKey
	}
	qty := decimalAt(row, 6)
	return &models.SalesOrderLine{
		SoNo:         soNo,
		SoLineNo:     seq.Next(soNo),
		OrderDate:    stringAt(row, 1),
		CustomerId:   stringAt(row, 2),
		CustomerName: stringAt(row, 3),
		MaterialId:   stringAt(row, 4),
		MaterialName: stringAt(row, 5),
		QtyOrdered:   qty,
		QtyRemaining: qty,
		UnitPrice:    decimalAt(row, 7),
		Revenue:      decimalAt(row, 8),
		PromiseDate:  stringAt(row, 9),
		Status:       statusFromCode(stringAt(row, 10)),
	}, nil
}

func (b *batch) supplier(row Row) (*models.Supplier, error) {
	if err := checkShape(row, schemas[EntitySuppliers]); err != nil {
		return nil, err
	}
	return &models.Supplier{
		SupplierId:      b.keyAt(row, 0, "SUP"),
		Name:            stringOr(row, 1, "Unknown Supplier"),
		LeadTimeDays:    defaultSupplierLeadTimeDays,
		OtdRate3m:       defaultSupplierOtdRate,
		OtdRate12m:      defaultSupplierOtdRate,
		ExpeditePremium: defaultExpeditePremium,
	}, nil
}

func (b *batch) workCenter(row Row) (*models.WorkCenter, error) {
	if err := checkShape(row, schemas[EntityWorkCenters]); err != nil {
		return nil, err
	}
	return &models.WorkCenter{
		WorkcenterId:       b.keyAt(row, 0, "WC"),
		Name:               stringOr(row, 1, "Unknown Work Center"),
		Type:               "General",
		DailyCapacityHours: defaultDailyCapacityHours,
		ShiftCount:         defaultShiftCount,
		OeeAvg:             defaultOeeAvg,
		RtyAvg:             defaultRtyAvg,
	}, nil
}
