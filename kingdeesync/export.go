package kingdeesync

import (
	"fmt"

	"bitbucket.org/mmdatafocus/erp_sync/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportSnapshot writes the synced tables to one spreadsheet for
// downstream planners: a sheet per entity kind, headers in row 1.
func ExportSnapshot(db *gorm.DB, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	var materials []models.Material
	if err := db.Order("material_id").Find(&materials).Error; err != nil {
		return err
	}
	rows := make([][]any, 0, len(materials))
	for _, m := range materials {
		rows = append(rows, []any{m.MaterialId, m.Name, m.Category, m.Unit, m.LeadTimeDays})
	}
	if err := writeSheet(f, "Materials", []string{"Material ID", "Name", "Category", "Unit", "Lead Time (days)"}, rows); err != nil {
		return err
	}

	var inventory []models.InventoryRecord
	if err := db.Order("material_id").Find(&inventory).Error; err != nil {
		return err
	}
	rows = rows[:0]
	for _, r := range inventory {
		rows = append(rows, []any{r.MaterialId, r.QtyOnHand.String(), r.QtyAvailable.String()})
	}
	if err := writeSheet(f, "Inventory", []string{"Material ID", "On Hand", "Available"}, rows); err != nil {
		return err
	}

	var mos []models.ManufacturingOrder
	if err := db.Order("mo_no").Find(&mos).Error; err != nil {
		return err
	}
	rows = rows[:0]
	for _, mo := range mos {
		rows = append(rows, []any{mo.MoNo, mo.SoNo, mo.MaterialId, mo.QtyPlan.String(), string(mo.Status), mo.PromiseDate})
	}
	if err := writeSheet(f, "Manufacturing Orders", []string{"MO No", "Source SO", "Material ID", "Planned Qty", "Status", "Promise Date"}, rows); err != nil {
		return err
	}

	var pos []models.PurchaseOrder
	if err := db.Order("po_no, po_line_no").Find(&pos).Error; err != nil {
		return err
	}
	rows = rows[:0]
	for _, po := range pos {
		rows = append(rows, []any{po.PoNo, po.PoLineNo, po.MaterialId, po.QtyOrdered.String(), po.QtyRemaining.String(), po.PromisedDate, po.IsConfirmed == 1})
	}
	if err := writeSheet(f, "Purchase Orders", []string{"PO No", "Line", "Material ID", "Ordered", "Remaining", "Promised Date", "Confirmed"}, rows); err != nil {
		return err
	}

	var sos []models.SalesOrderLine
	if err := db.Order("so_no, so_line_no").Find(&sos).Error; err != nil {
		return err
	}
	rows = rows[:0]
	for _, so := range sos {
		rows = append(rows, []any{so.SoNo, so.SoLineNo, so.CustomerId, so.CustomerName, so.MaterialId, so.QtyOrdered.String(), so.UnitPrice.String(), so.Revenue.String(), so.PromiseDate, string(so.Status)})
	}
	if err := writeSheet(f, "Sales Orders", []string{"SO No", "Line", "Customer ID", "Customer", "Material ID", "Ordered", "Unit Price", "Revenue", "Promise Date", "Status"}, rows); err != nil {
		return err
	}

	var suppliers []models.Supplier
	if err := db.Order("supplier_id").Find(&suppliers).Error; err != nil {
		return err
	}
	rows = rows[:0]
	for _, sup := range suppliers {
		rows = append(rows, []any{sup.SupplierId, sup.Name, sup.LeadTimeDays, sup.OtdRate3m.String(), sup.OtdRate12m.String(), sup.ExpeditePremium.String()})
	}
	if err := writeSheet(f, "Suppliers", []string{"Supplier ID", "Name", "Lead Time (days)", "OTD 3m", "OTD 12m", "Expedite Premium"}, rows); err != nil {
		return err
	}

	var wcs []models.WorkCenter
	if err := db.Order("workcenter_id").Find(&wcs).Error; err != nil {
		return err
	}
	rows = rows[:0]
	for _, wc := range wcs {
		rows = append(rows, []any{wc.WorkcenterId, wc.Name, wc.Type, wc.DailyCapacityHours.String(), wc.ShiftCount, wc.OeeAvg.String(), wc.RtyAvg.String()})
	}
	if err := writeSheet(f, "Work Centers", []string{"Workcenter ID", "Name", "Type", "Daily Capacity (h)", "Shifts", "OEE", "RTY"}, rows); err != nil {
		return err
	}

	// excelize seeds every workbook with "Sheet1".
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, name string, headers []string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, v); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
			}
		}
	}
	return nil
}
