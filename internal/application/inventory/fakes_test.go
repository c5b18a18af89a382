package inventory_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria compartido por los repositorios fake
// ──────────────────────────────────────────────────────────────────────────────

// memStore simula la BD: mapas por entidad y un ledger append-only de eventos.
// La clave de records es productID|warehouseID, como el UNIQUE de la tabla.
type memStore struct {
	companies  map[string]*entity.Company
	warehouses map[string]*entity.Warehouse
	products   map[string]*entity.Product
	components []*entity.BundleComponent
	suppliers  map[string]*entity.Supplier
	relations  []*entity.SupplierProduct
	records    map[string]*entity.InventoryRecord
	events     []*entity.InventoryEvent
	seq        int
}

func newMemStore() *memStore {
	return &memStore{
		companies:  make(map[string]*entity.Company),
		warehouses: make(map[string]*entity.Warehouse),
		products:   make(map[string]*entity.Product),
		suppliers:  make(map[string]*entity.Supplier),
		records:    make(map[string]*entity.InventoryRecord),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%03d", prefix, s.seq)
}

func recordKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}

// snapshot copia el estado mutable (records + events) para poder simular
// rollback: los fakes mutan en sitio igual que la BD dentro de una tx.
func (s *memStore) snapshot() (map[string]*entity.InventoryRecord, []*entity.InventoryEvent) {
	recs := make(map[string]*entity.InventoryRecord, len(s.records))
	for k, r := range s.records {
		cp := *r
		recs[k] = &cp
	}
	evs := make([]*entity.InventoryEvent, len(s.events))
	copy(evs, s.events)
	return recs, evs
}

func (s *memStore) restore(recs map[string]*entity.InventoryRecord, evs []*entity.InventoryEvent) {
	s.records = recs
	s.events = evs
}

// ──────────────────────────────────────────────────────────────────────────────
// Seeds
// ──────────────────────────────────────────────────────────────────────────────

func (s *memStore) seedCompany(id string) *entity.Company {
	c := &entity.Company{ID: id, Name: "Empresa " + id, NIT: "900" + id, Status: entity.CompanyStatusActive}
	s.companies[id] = c
	return c
}

func (s *memStore) seedWarehouse(id, companyID string) *entity.Warehouse {
	w := &entity.Warehouse{ID: id, CompanyID: companyID, Name: "Bodega " + id, Active: true}
	s.warehouses[id] = w
	return w
}

func (s *memStore) seedProduct(id, companyID string, minStock int64) *entity.Product {
	p := &entity.Product{
		ID: id, CompanyID: companyID,
		SKU: "SKU-" + strings.ToUpper(id), Name: "Producto " + id,
		MinStockLevel: minStock, Active: true,
	}
	s.products[id] = p
	return p
}

func (s *memStore) seedBundle(id, companyID string, minStock int64, comps ...*entity.BundleComponent) *entity.Product {
	p := s.seedProduct(id, companyID, minStock)
	p.IsBundle = true
	s.components = append(s.components, comps...)
	return p
}

func comp(bundleID, componentID string, qty int64) *entity.BundleComponent {
	return &entity.BundleComponent{BundleID: bundleID, ComponentID: componentID, Quantity: qty}
}

func (s *memStore) seedRecord(productID, warehouseID string, quantity, reserved int64) *entity.InventoryRecord {
	r := &entity.InventoryRecord{
		ID:        s.nextID("rec"),
		ProductID: productID, WarehouseID: warehouseID,
		Quantity: quantity, Reserved: reserved,
	}
	s.records[recordKey(productID, warehouseID)] = r
	return r
}

func (s *memStore) seedSale(productID, warehouseID string, units int64, date time.Time) {
	s.events = append(s.events, &entity.InventoryEvent{
		ID:        s.nextID("ev"),
		ProductID: productID, WarehouseID: warehouseID,
		Type: entity.ChangeTypeSale, Delta: -units, Date: date,
	})
}

func (s *memStore) seedRestock(productID, warehouseID, supplierID string, date time.Time) {
	s.events = append(s.events, &entity.InventoryEvent{
		ID:        s.nextID("ev"),
		ProductID: productID, WarehouseID: warehouseID,
		Type: entity.ChangeTypeRestock, SupplierID: &supplierID, Date: date,
	})
}

func (s *memStore) seedSupplier(id, companyID, name string) *entity.Supplier {
	sup := &entity.Supplier{ID: id, CompanyID: companyID, Name: name, Active: true}
	s.suppliers[id] = sup
	return sup
}

func (s *memStore) seedRelation(supplierID, productID string, preferred bool) {
	s.relations = append(s.relations, &entity.SupplierProduct{
		SupplierID: supplierID, ProductID: productID, IsPreferred: preferred,
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner fake con semántica de rollback
// ──────────────────────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	store *memStore
	runs  int
}

var _ inventory.TxRunner = (*fakeTxRunner)(nil)

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	recordRepo repository.InventoryRecordRepository,
	eventRepo repository.InventoryEventRepository,
) error) error {
	t.runs++
	recs, evs := t.store.snapshot()
	err := fn(&fakeRecordRepo{store: t.store}, &fakeEventRepo{store: t.store})
	if err != nil {
		t.store.restore(recs, evs)
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios fake
// ──────────────────────────────────────────────────────────────────────────────

type fakeCompanyRepo struct{ store *memStore }

var _ repository.CompanyRepository = (*fakeCompanyRepo)(nil)

func (r *fakeCompanyRepo) Create(ctx context.Context, c *entity.Company) error { return nil }
func (r *fakeCompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.store.companies[id], nil
}
func (r *fakeCompanyRepo) GetByNIT(ctx context.Context, nit string) (*entity.Company, error) {
	return nil, nil
}
func (r *fakeCompanyRepo) Update(ctx context.Context, c *entity.Company) error { return nil }
func (r *fakeCompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	return nil, nil
}

type fakeWarehouseRepo struct{ store *memStore }

var _ repository.WarehouseRepository = (*fakeWarehouseRepo)(nil)

func (r *fakeWarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	return r.store.warehouses[id], nil
}
func (r *fakeWarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error { return nil }
func (r *fakeWarehouseRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.store.warehouses {
		if w.CompanyID == companyID {
			out = append(out, w)
		}
	}
	return out, nil
}
func (r *fakeWarehouseRepo) ListActiveByCompany(ctx context.Context, companyID string) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for _, w := range r.store.warehouses {
		if w.CompanyID == companyID && w.Active {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeProductRepo struct{ store *memStore }

var _ repository.ProductRepository = (*fakeProductRepo)(nil)

func (r *fakeProductRepo) Create(ctx context.Context, p *entity.Product) error { return nil }
func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.store.products[id], nil
}
func (r *fakeProductRepo) GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}
func (r *fakeProductRepo) Update(ctx context.Context, p *entity.Product) error { return nil }
func (r *fakeProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) ListBundlesByCompany(ctx context.Context, companyID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.CompanyID == companyID && p.IsBundle && p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
func (r *fakeProductRepo) Deactivate(ctx context.Context, id string) error {
	if p, ok := r.store.products[id]; ok {
		p.Active = false
	}
	return nil
}

type fakeBundleRepo struct{ store *memStore }

var _ repository.BundleRepository = (*fakeBundleRepo)(nil)

func (r *fakeBundleRepo) ReplaceComponents(ctx context.Context, bundleID string, components []*entity.BundleComponent) error {
	kept := r.store.components[:0:0]
	for _, c := range r.store.components {
		if c.BundleID != bundleID {
			kept = append(kept, c)
		}
	}
	r.store.components = append(kept, components...)
	return nil
}
func (r *fakeBundleRepo) ListByBundle(ctx context.Context, bundleID string) ([]*entity.BundleComponent, error) {
	var out []*entity.BundleComponent
	for _, c := range r.store.components {
		if c.BundleID == bundleID {
			out = append(out, c)
		}
	}
	return out, nil
}
func (r *fakeBundleRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.BundleComponent, error) {
	var out []*entity.BundleComponent
	for _, c := range r.store.components {
		if p, ok := r.store.products[c.BundleID]; ok && p.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeSupplierRepo struct{ store *memStore }

var _ repository.SupplierRepository = (*fakeSupplierRepo)(nil)

func (r *fakeSupplierRepo) Create(ctx context.Context, s *entity.Supplier) error { return nil }
func (r *fakeSupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.store.suppliers[id], nil
}
func (r *fakeSupplierRepo) Update(ctx context.Context, s *entity.Supplier) error { return nil }
func (r *fakeSupplierRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Supplier, error) {
	return nil, nil
}
func (r *fakeSupplierRepo) UpsertRelation(ctx context.Context, rel *entity.SupplierProduct) error {
	r.store.relations = append(r.store.relations, rel)
	return nil
}
func (r *fakeSupplierRepo) ListRelationsByCompany(ctx context.Context, companyID string) ([]repository.SupplierRelation, error) {
	var out []repository.SupplierRelation
	for _, rel := range r.store.relations {
		sup, ok := r.store.suppliers[rel.SupplierID]
		if !ok || sup.CompanyID != companyID {
			continue
		}
		out = append(out, repository.SupplierRelation{
			ProductID:    rel.ProductID,
			SupplierID:   rel.SupplierID,
			SupplierName: sup.Name,
			IsPreferred:  rel.IsPreferred,
		})
	}
	return out, nil
}

type fakeRecordRepo struct{ store *memStore }

var _ repository.InventoryRecordRepository = (*fakeRecordRepo)(nil)

func (r *fakeRecordRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, error) {
	rec, ok := r.store.records[recordKey(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}
func (r *fakeRecordRepo) GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryRecord, bool, error) {
	key := recordKey(productID, warehouseID)
	if rec, ok := r.store.records[key]; ok {
		cp := *rec
		return &cp, false, nil
	}
	rec := &entity.InventoryRecord{
		ID:        r.store.nextID("rec"),
		ProductID: productID, WarehouseID: warehouseID,
	}
	r.store.records[key] = rec
	cp := *rec
	return &cp, true, nil
}
func (r *fakeRecordRepo) Update(ctx context.Context, rec *entity.InventoryRecord) error {
	cp := *rec
	r.store.records[recordKey(rec.ProductID, rec.WarehouseID)] = &cp
	return nil
}
func (r *fakeRecordRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	for _, rec := range r.store.records {
		if rec.WarehouseID == warehouseID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}
func (r *fakeRecordRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.InventoryRecord, error) {
	var out []*entity.InventoryRecord
	for _, rec := range r.store.records {
		wh, ok := r.store.warehouses[rec.WarehouseID]
		if !ok || wh.CompanyID != companyID || !wh.Active {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}
func (r *fakeRecordRepo) ListAlertCandidates(ctx context.Context, companyID string) ([]repository.AlertCandidate, error) {
	var out []repository.AlertCandidate
	for _, rec := range r.store.records {
		p, ok := r.store.products[rec.ProductID]
		if !ok || p.CompanyID != companyID || !p.Active || p.IsBundle || p.MinStockLevel <= 0 {
			continue
		}
		wh, ok := r.store.warehouses[rec.WarehouseID]
		if !ok || wh.CompanyID != companyID || !wh.Active {
			continue
		}
		out = append(out, repository.AlertCandidate{
			ProductID:     p.ID,
			SKU:           p.SKU,
			ProductName:   p.Name,
			MinStockLevel: p.MinStockLevel,
			WarehouseID:   wh.ID,
			WarehouseName: wh.Name,
			Quantity:      rec.Quantity,
			Reserved:      rec.Reserved,
		})
	}
	return out, nil
}

type fakeEventRepo struct{ store *memStore }

var _ repository.InventoryEventRepository = (*fakeEventRepo)(nil)

func (r *fakeEventRepo) Create(ctx context.Context, ev *entity.InventoryEvent) error {
	if ev.ID == "" {
		ev.ID = r.store.nextID("ev")
	}
	r.store.events = append(r.store.events, ev)
	return nil
}
func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*entity.InventoryEvent, error) {
	for _, ev := range r.store.events {
		if ev.ID == id {
			return ev, nil
		}
	}
	return nil, nil
}
func (r *fakeEventRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryEvent, error) {
	var out []*entity.InventoryEvent
	for _, ev := range r.store.events {
		if ev.ProductID == productID {
			out = append(out, ev)
		}
	}
	return out, nil
}
func (r *fakeEventRepo) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryEvent, error) {
	var out []*entity.InventoryEvent
	for _, ev := range r.store.events {
		if ev.WarehouseID == warehouseID {
			out = append(out, ev)
		}
	}
	return out, nil
}
func (r *fakeEventRepo) SaleTotalsSince(ctx context.Context, companyID string, since time.Time) ([]repository.SaleTotal, error) {
	totals := make(map[[2]string]int64)
	for _, ev := range r.store.events {
		if ev.Type != entity.ChangeTypeSale || ev.Date.Before(since) {
			continue
		}
		wh, ok := r.store.warehouses[ev.WarehouseID]
		if !ok || wh.CompanyID != companyID || !wh.Active {
			continue
		}
		d := ev.Delta
		if d < 0 {
			d = -d
		}
		totals[[2]string{ev.ProductID, ev.WarehouseID}] += d
	}
	var out []repository.SaleTotal
	for k, units := range totals {
		out = append(out, repository.SaleTotal{ProductID: k[0], WarehouseID: k[1], Units: units})
	}
	return out, nil
}
func (r *fakeEventRepo) LastRestockSuppliers(ctx context.Context, companyID string) ([]repository.RestockProvenance, error) {
	latest := make(map[[2]string]*entity.InventoryEvent)
	for _, ev := range r.store.events {
		if ev.Type != entity.ChangeTypeRestock || ev.SupplierID == nil {
			continue
		}
		wh, ok := r.store.warehouses[ev.WarehouseID]
		if !ok || wh.CompanyID != companyID {
			continue
		}
		key := [2]string{ev.ProductID, ev.WarehouseID}
		if prev, ok := latest[key]; !ok || ev.Date.After(prev.Date) {
			latest[key] = ev
		}
	}
	var out []repository.RestockProvenance
	for k, ev := range latest {
		name := ""
		if sup, ok := r.store.suppliers[*ev.SupplierID]; ok {
			name = sup.Name
		}
		out = append(out, repository.RestockProvenance{
			ProductID: k[0], WarehouseID: k[1],
			SupplierID: *ev.SupplierID, SupplierName: name, Date: ev.Date,
		})
	}
	return out, nil
}
