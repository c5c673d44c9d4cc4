package kingdeesync

import (
	"context"
	"errors"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/erp_sync/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrLoginFailed halts the whole run; every other failure is absorbed
// at the entity kind or row it affects.
var ErrLoginFailed = errors.New("kingdee login failed")

// Modules selects which entity kinds a run covers.
type Modules struct {
	Materials           bool `json:"materials"`
	Customers           bool `json:"customers"`
	ManufacturingOrders bool `json:"manufacturingOrders"`
	Inventory           bool `json:"inventory"`
	PurchaseOrders      bool `json:"purchaseOrders"`
	Bom                 bool `json:"bom"`
	SalesOrders         bool `json:"salesOrders"`
	Suppliers           bool `json:"suppliers"`
	WorkCenters         bool `json:"workcenters"`
	Enhance             bool `json:"enhance"`
}

func DefaultModules() Modules {
	return Modules{
		Materials:           true,
		Customers:           true,
		ManufacturingOrders: true,
		Inventory:           true,
		PurchaseOrders:      true,
		Bom:                 true,
		SalesOrders:         true,
		Suppliers:           true,
		WorkCenters:         true,
		Enhance:             true,
	}
}

func (m Modules) Any() bool {
	return m.Materials || m.Customers || m.ManufacturingOrders || m.Inventory ||
		m.PurchaseOrders || m.Bom || m.SalesOrders || m.Suppliers ||
		m.WorkCenters || m.Enhance
}

// RunSummary aggregates one sync invocation.
type RunSummary struct {
	RunId    string         `json:"run_id"`
	Total    int            `json:"total"`
	Duration time.Duration  `json:"duration"`
	PerKind  map[string]int `json:"per_kind"`
}

// Syncer drives one pass: login, then per entity kind query ->
// normalize -> (line sequencing) -> upsert -> audit log. Entity kinds
// run sequentially; a failure in one kind is logged and the next kind
// proceeds.
type Syncer struct {
	client      *Client
	db          *gorm.DB
	logger      *logrus.Logger
	triggeredBy string
}

func NewSyncer(client *Client, db *gorm.DB, logger *logrus.Logger) *Syncer {
	return &Syncer{
		client:      client,
		db:          db,
		logger:      logger,
		triggeredBy: models.SyncTriggeredManual,
	}
}

func (s *Syncer) SetTriggeredBy(by string) {
	s.triggeredBy = by
}

// Run executes the selected modules. Only a failed login aborts; it
// leaves no sync_logs rows and issues no queries.
func (s *Syncer) Run(ctx context.Context, mod Modules) (RunSummary, error) {
	summary := RunSummary{
		RunId:   uuid.NewString(),
		PerKind: make(map[string]int),
	}

	if !s.client.Login(ctx) {
		return summary, ErrLoginFailed
	}

	start := time.Now()

	passes := []struct {
		enabled bool
		kind    string
		fn      func(context.Context) (int, error)
	}{
		{mod.Materials, EntityMaterials, s.syncMaterials},
		{mod.Customers, EntityCustomers, s.syncCustomers},
		{mod.ManufacturingOrders, EntityManufacturingOrders, s.syncManufacturingOrders},
		{mod.Inventory, EntityInventory, s.syncInventory},
		{mod.PurchaseOrders, EntityPurchaseOrders, s.syncPurchaseOrders},
		{mod.Bom, EntityBom, s.syncBom},
		{mod.SalesOrders, EntitySalesOrders, s.syncSalesOrders},
		{mod.Suppliers, EntitySuppliers, s.syncSuppliers},
		{mod.WorkCenters, EntityWorkCenters, s.syncWorkCenters},
	}

	for _, p := range passes {
		if !p.enabled {
			continue
		}
		count, err := p.fn(ctx)
		if err != nil {
			s.logger.WithFields(logrus.Fields{"entity": p.kind}).Warnf("sync failed: %v", err)
			s.logSync(summary.RunId, p.kind, 0, models.SyncStatusFailure)
			continue
		}
		summary.PerKind[p.kind] = count
		summary.Total += count
		s.logger.WithFields(logrus.Fields{"entity": p.kind, "count": count}).Info("entity synced")
		s.logSync(summary.RunId, p.kind, count, models.SyncStatusSuccess)
	}

	if mod.Enhance {
		if err := EnhanceExistingData(s.db, s.logger); err != nil {
			s.logger.Warnf("enhancement pass failed: %v", err)
		}
	}

	summary.Duration = time.Since(start)
	s.logger.WithFields(logrus.Fields{
		"run_id":   summary.RunId,
		"total":    summary.Total,
		"duration": summary.Duration.Round(time.Millisecond).String(),
	}).Info("sync run finished")
	return summary, nil
}

func (s *Syncer) query(ctx context.Context, schema EntitySchema) ([]Row, error) {
	return s.client.Query(ctx, schema.FormID, schema.FieldKeyString(), schema.Filter(time.Now()), schema.Limit)
}

// skipRow records a dropped row. Shape mismatches get a visible
// warning; blank-key rows drop silently per contract.
func (s *Syncer) skipRow(kind string, err error) {
	if errors.Is(err, errMissingKey) {
		s.logger.WithFields(logrus.Fields{"entity": kind}).Debug("dropped row with empty key")
		return
	}
	s.logger.WithFields(logrus.Fields{"entity": kind}).Warnf("skipped row: %v", err)
}

func (s *Syncer) store(kind string, record any) bool {
	if err := upsert(s.db, record); err != nil {
		s.logger.WithFields(logrus.Fields{"entity": kind}).Warnf("upsert failed: %v", err)
		return false
	}
	return true
}

func (s *Syncer) logSync(runId string, kind string, count int, status string) {
	entry := models.SyncLog{
		RunId:       runId,
		EntityKind:  kind,
		RecordCount: count,
		Status:      status,
		TriggeredBy: s.triggeredBy,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.WithFields(logrus.Fields{"entity": kind}).Warnf("sync log write failed: %v", err)
	}
}

func (s *Syncer) syncMaterials(ctx context.Context) (int, error) {
	rows, err := s.query(ctx, schemas[EntityMaterials])
	if err != nil {
		return 0, err
	}
	b := newBatch()
	count := 0
	for _, row := range rows {
		rec, err := b.material(row)
		if err != nil {
			s.skipRow(EntityMaterials, err)
			continue
		}
		if s.store(EntityMaterials, rec) {
			count++
		}
	}
	return count, nil
}

func (s *Syncer) syncCustomers(ctx context.Context) (int, error) {
	rows, err := s.query(ctx, schemas[EntityCustomers])
	if err != nil {
		return 0, err
	}
	b := newBatch()
	count := 0
	for _, row := range rows {
		rec, err := b.customer(row)
		if err != nil {
			s.skipRow(EntityCustomers, err)
			continue
		}
		if s.store(EntityCustomers, rec) {
			count++
		}
	}
	return count, nil
}

func (s *Syncer) syncManufacturingOrders(ctx context.Context) (int, error) {
	rows, err := s.query(ctx, schemas[EntityManufacturingOrders])
	if err != nil {
		return 0, err
	}
	b := newBatch()
	count := 0
	for _, row := range rows {
		rec, err := b.manufacturingOrder(row)
		if err != nil {
			s.skipRow(EntityManufacturingOrders, err)
			continue
		}
		if s.store(EntityManufacturingOrders, rec) {
			count++
		}
	}
	return count, nil
}

func (s *Syncer) syncInventory(ctx context.Context) (int, error) {
	rows, err := s.query(ctx, schemas[EntityInventory])
	if err != nil {
		return 0, err
	}
	b := newBatch()
	count := 0
	for _, row := range rows {
		rec, err := b.inventoryRecord(row)
		if err != nil {
			s.skipRow(EntityInventory, err)
			continue
		}
		if s.store(EntityInventory, rec) {
			count++
		}
	}
	return count, nil
}

func (s *Syncer) syncPurchaseOrders(ctx context.Context) (int, error) {
	rows, err := s.query(ctx, schemas[EntityPurchaseOrders])
	if err != nil {
		return 0, err
	}
	b := newBatch()
	count := 0
	for _, row := range rows {
		rec, err := b.purchaseOrder(row)
		if err != nil {
			s.skipRow(EntityPurchaseOrders, err)
			continue
		}
		if s.store(EntityPurchaseOrders, rec) {
			count++
		}
	}
	return count, nil
}

func (s *Syncer) syncBom(ctx context.Context) (int, error) {
	rows, err := s.query(ctx, schemas[EntityBom])
	if err != nil {
		return 0, err
	}
	b := newBatch()
	count := 0
	for _, row := range rows {
		rec, err := b.bomEdge(row)
		if err != nil {
			s.skipRow(EntityBom, err)
			continue
		}
		if s.store(EntityBom, rec) {
			count++
		}
	}
	return count, nil
}

func (s *Syncer) syncSalesOrders(ctx context.Context) (int, error) {
	rows, err := s.query(ctx, schemas[EntitySalesOrders])
	if err != nil {
		return 0, err
	}
	b := newBatch()
	seq := newLineSequencer()
	count := 0
	for _, row := range rows {
		rec, err := b.salesOrderLine(row, seq)
		if err != nil {
			s.skipRow(EntitySalesOrders, err)
			continue
		}
		if s.store(EntitySalesOrders, rec) {
			count++
		}
	}
	if multi := seq.MultiLine(); len(multi) > 0 {
		sample := make([]string, 0, len(multi))
		for doc := range multi {
			sample = append(sample, doc)
		}
		sort.Strings(sample)
		if len(sample) > 5 {
			sample = sample[:5]
		}
		s.logger.WithFields(logrus.Fields{
			"orders":     seq.Documents(),
			"multi_line": len(multi),
			"sample":     sample,
		}).Info("sales orders include multi-line documents")
	}
	return count, nil
}

func (s *Syncer) syncSuppliers(ctx context.Context) (int, error) {
	rows, err := s.query(ctx, schemas[EntitySuppliers])
	if err != nil {
		return 0, err
	}
	b := newBatch()
	count := 0
	for _, row := range rows {
		rec, err := b.supplier(row)
		if err != nil {
			s.skipRow(EntitySuppliers, err)
			continue
		}
		if s.store(EntitySuppliers, rec) {
			count++
		}
	}
	return count, nil
}

func (s *Syncer) syncWorkCenters(ctx context.Context) (int, error) {
	rows, err := s.query(ctx, schemas[EntityWorkCenters])
	if err != nil {
		return 0, err
	}
	b := newBatch()
	count := 0
	for _, row := range rows {
		rec, err := b.workCenter(row)
		if err != nil {
			s.skipRow(EntityWorkCenters, err)
			continue
		}
		if s.store(EntityWorkCenters, rec) {
			count++
		}
	}
	return count, nil
}
