package kingdeesync

import (
	"fmt"
	"strings"
	"time"
)

// Entity kinds, as recorded in sync_logs.entity_kind.
const (
	EntityMaterials           = "materials"
	EntityCustomers           = "customers"
	EntityManufacturingOrders = "manufacturing_orders"
	EntityInventory           = "inventory"
	EntityPurchaseOrders      = "purchase_orders"
	EntityBom                 = "bom"
	EntitySalesOrders         = "sales_orders"
	EntitySuppliers           = "suppliers"
	EntityWorkCenters         = "workcenters"
)

// EntitySchema declares how one remote form maps to rows: the form id,
// the ordered field keys (dotted paths reach related-entity fields),
// the page limit, and an optional rolling date window. The minimum
// field count a row must carry is derived from the schema, not hard
// coded per entity.
type EntitySchema struct {
	Kind      string
	FormID    string
	FieldKeys []string
	Limit     int
	// DateField/WindowDays restrict transactional forms to recent
	// documents: date on/after (now - WindowDays).
	DateField  string
	WindowDays int
}

func (s EntitySchema) FieldKeyString() string {
	return strings.Join(s.FieldKeys, ",")
}

func (s EntitySchema) MinFields() int {
	return len(s.FieldKeys)
}

// Filter renders the relative date filter in the remote filter grammar,
// or "" for unwindowed entities.
func (s EntitySchema) Filter(now time.Time) string {
	if s.WindowDays <= 0 {
		return ""
	}
	since := now.AddDate(0, 0, -s.WindowDays).Format("2006-01-02")
	return fmt.Sprintf("%s >= '%s'", s.DateField, since)
}

var schemas = map[string]EntitySchema{
	EntityMaterials: {
		Kind:      EntityMaterials,
		FormID:    "BD_Material",
		FieldKeys: []string{"FNumber", "FName", "FCategoryID.FName", "FBaseUnitId.FName"},
		Limit:     500,
	},
	EntityCustomers: {
		Kind:      EntityCustomers,
		FormID:    "BD_Customer",
		FieldKeys: []string{"FNumber", "FName"},
		Limit:     200,
	},
	EntityManufacturingOrders: {
		Kind:       EntityManufacturingOrders,
		FormID:     "PRD_MO",
		FieldKeys:  []string{"FBillNo", "FSrcBillNo", "FMaterialId.FNumber", "FMaterialId.FName", "FQty", "FPlanFinishDate", "FDocumentStatus"},
		Limit:      100,
		DateField:  "FDate",
		WindowDays: 90,
	},
	EntityInventory: {
		Kind:      EntityInventory,
		FormID:    "STK_Inventory",
		FieldKeys: []string{"FMaterialId.FNumber", "FBaseQty"},
		Limit:     500,
	},
	EntityPurchaseOrders: {
		Kind:       EntityPurchaseOrders,
		FormID:     "PUR_PurchaseOrder",
		FieldKeys:  []string{"FBillNo", "FMaterialId.FNumber", "FQty", "FDeliveryDate", "FConfirmDate"},
		Limit:      200,
		DateField:  "FDate",
		WindowDays: 90,
	},
	EntityBom: {
		Kind:      EntityBom,
		FormID:    "PRD_PPBOM",
		FieldKeys: []string{"FMaterialId.FNumber", "FChildMaterialId.FNumber", "FBOMChildQty"},
		Limit:     1000,
	},
	EntitySalesOrders: {
		Kind:       EntitySalesOrders,
		FormID:     "SAL_SaleOrder",
		FieldKeys:  []string{"FBillNo", "FDate", "FCustId.FNumber", "FCustId.FName", "FMaterialId.FNumber", "FMaterialId.FName", "FQty", "FPrice", "FAmount", "FDeliveryDate", "FDocumentStatus"},
		Limit:      2000,
		DateField:  "FDate",
		WindowDays: 90,
	},
	EntitySuppliers: {
		Kind:      EntitySuppliers,
		FormID:    "BD_Supplier",
		FieldKeys: []string{"FNumber", "FName"},
		Limit:     100,
	},
	EntityWorkCenters: {
		Kind:      EntityWorkCenters,
		FormID:    "BD_WorkCenter",
		FieldKeys: []string{"FNumber", "FName"},
		Limit:     50,
	},
}

// SchemaFor returns the declarative schema for an entity kind.
func SchemaFor(kind string) (EntitySchema, bool) {
	s, ok := schemas[kind]
	return s, ok
}
