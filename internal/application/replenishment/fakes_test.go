package replenishment

import (
	"context"
	"fmt"
	"sync"

	"github.com/fanstore/backend/internal/domain/replenishment"
	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/fanstore/backend/internal/domain/stock"
	"github.com/fanstore/backend/internal/domain/warehouse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memRequestRepo is an in-memory InventoryRequestRepository with optimistic
// lock semantics.
type memRequestRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*replenishment.InventoryRequest
	seq      int
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[uuid.UUID]*replenishment.InventoryRequest)}
}

func (r *memRequestRepo) copyOf(req *replenishment.InventoryRequest) *replenishment.InventoryRequest {
	cp := *req
	cp.Items = append([]replenishment.RequestItem(nil), req.Items...)
	return &cp
}

func (r *memRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*replenishment.InventoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r.copyOf(req), nil
}

func (r *memRequestRepo) FindByNumber(_ context.Context, number string) (*replenishment.InventoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.RequestNumber == number {
			return r.copyOf(req), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memRequestRepo) FindAll(_ context.Context, filter shared.Filter) ([]replenishment.InventoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []replenishment.InventoryRequest
	for _, req := range r.requests {
		if status, ok := filter.Filters["status"]; ok && req.Status.String() != status {
			continue
		}
		if wid, ok := filter.Filters["requesting_warehouse_id"]; ok && req.RequestingWarehouseID != wid {
			continue
		}
		out = append(out, *r.copyOf(req))
	}
	return out, nil
}

func (r *memRequestRepo) FindByRequestingWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]replenishment.InventoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []replenishment.InventoryRequest
	for _, req := range r.requests {
		if req.RequestingWarehouseID == warehouseID {
			out = append(out, *r.copyOf(req))
		}
	}
	return out, nil
}

func (r *memRequestRepo) CountOpenByWarehouse(_ context.Context, warehouseID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, req := range r.requests {
		if !req.IsOpen() {
			continue
		}
		if req.RequestingWarehouseID == warehouseID ||
			(req.SourceWarehouseID != nil && *req.SourceWarehouseID == warehouseID) {
			n++
		}
	}
	return n, nil
}

func (r *memRequestRepo) Save(_ context.Context, request *replenishment.InventoryRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests[request.ID] = r.copyOf(request)
	return nil
}

func (r *memRequestRepo) SaveWithLock(_ context.Context, request *replenishment.InventoryRequest, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requests[request.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	r.requests[request.ID] = r.copyOf(request)
	return nil
}

func (r *memRequestRepo) Count(_ context.Context, filter shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, req := range r.requests {
		if status, ok := filter.Filters["status"]; ok && req.Status.String() != status {
			continue
		}
		n++
	}
	return n, nil
}

func (r *memRequestRepo) NextRequestNumber(_ context.Context, prefix string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("%s-%06d", prefix, r.seq), nil
}

var _ replenishment.InventoryRequestRepository = (*memRequestRepo)(nil)

// memWarehouseRepo is an in-memory WarehouseRepository
type memWarehouseRepo struct {
	mu         sync.Mutex
	warehouses map[uuid.UUID]*warehouse.Warehouse
}

func newMemWarehouseRepo(warehouses ...*warehouse.Warehouse) *memWarehouseRepo {
	r := &memWarehouseRepo{warehouses: make(map[uuid.UUID]*warehouse.Warehouse)}
	for _, w := range warehouses {
		r.warehouses[w.ID] = w
	}
	return r
}

func (r *memWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*warehouse.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.warehouses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *memWarehouseRepo) FindByCode(_ context.Context, code string) (*warehouse.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.warehouses {
		if w.Code == code {
			cp := *w
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouseRepo) FindByStoreID(_ context.Context, storeID uuid.UUID) (*warehouse.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.warehouses {
		if w.StoreID != nil && *w.StoreID == storeID && w.IsActive() {
			cp := *w
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouseRepo) FindAll(_ context.Context, _ shared.Filter) ([]warehouse.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []warehouse.Warehouse
	for _, w := range r.warehouses {
		out = append(out, *w)
	}
	return out, nil
}

func (r *memWarehouseRepo) FindActive(_ context.Context, _ shared.Filter) ([]warehouse.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []warehouse.Warehouse
	for _, w := range r.warehouses {
		if w.IsActive() {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *memWarehouseRepo) FindChildren(_ context.Context, parentID uuid.UUID) ([]warehouse.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []warehouse.Warehouse
	for _, w := range r.warehouses {
		if w.ParentWarehouseID != nil && *w.ParentWarehouseID == parentID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *memWarehouseRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]warehouse.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []warehouse.Warehouse
	for _, id := range ids {
		if w, ok := r.warehouses[id]; ok {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *memWarehouseRepo) Save(_ context.Context, w *warehouse.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.warehouses[w.ID] = &cp
	return nil
}

func (r *memWarehouseRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.warehouses, id)
	return nil
}

func (r *memWarehouseRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.warehouses)), nil
}

func (r *memWarehouseRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.warehouses {
		if w.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memWarehouseRepo) ExistsActiveByStoreID(_ context.Context, storeID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.warehouses {
		if w.ID == excludeID {
			continue
		}
		if w.StoreID != nil && *w.StoreID == storeID && w.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

var _ warehouse.WarehouseRepository = (*memWarehouseRepo)(nil)

// memStockRecordRepo is an in-memory StockRecordRepository with optimistic
// lock semantics.
type memStockRecordRepo struct {
	mu      sync.Mutex
	records map[stock.LedgerKey]*stock.StockRecord
}

func newMemStockRecordRepo() *memStockRecordRepo {
	return &memStockRecordRepo{records: make(map[stock.LedgerKey]*stock.StockRecord)}
}

func (r *memStockRecordRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memStockRecordRepo) FindByKey(_ context.Context, key stock.LedgerKey) (*stock.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *memStockRecordRepo) GetOrCreate(_ context.Context, key stock.LedgerKey) (*stock.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key]
	if !ok {
		created, err := stock.NewStockRecord(key.WarehouseID, key.ProductID, key.VariantID)
		if err != nil {
			return nil, err
		}
		r.records[key] = created
		rec = created
	}
	cp := *rec
	return &cp, nil
}

func (r *memStockRecordRepo) FindByWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]stock.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.StockRecord
	for _, rec := range r.records {
		if rec.WarehouseID == warehouseID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memStockRecordRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]stock.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.StockRecord
	for _, rec := range r.records {
		if rec.ProductID == productID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memStockRecordRepo) QuantitiesByProduct(_ context.Context, warehouseID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, rec := range r.records {
		if rec.WarehouseID != warehouseID {
			continue
		}
		for _, pid := range productIDs {
			if rec.ProductID == pid {
				out[pid] = out[pid].Add(rec.QuantityOnHand)
			}
		}
	}
	return out, nil
}

func (r *memStockRecordRepo) Save(_ context.Context, record *stock.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *record
	r.records[record.Key()] = &cp
	return nil
}

func (r *memStockRecordRepo) SaveWithLock(_ context.Context, record *stock.StockRecord, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.records[record.Key()]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	cp := *record
	r.records[record.Key()] = &cp
	return nil
}

func (r *memStockRecordRepo) CountWithStock(_ context.Context, warehouseID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rec := range r.records {
		if rec.WarehouseID == warehouseID && rec.QuantityOnHand.IsPositive() {
			n++
		}
	}
	return n, nil
}

var _ stock.StockRecordRepository = (*memStockRecordRepo)(nil)

// memMovementRepo is an append-only in-memory StockMovementRepository
type memMovementRepo struct {
	mu        sync.Mutex
	movements []stock.StockMovement
}

func newMemMovementRepo() *memMovementRepo { return &memMovementRepo{} }

func (r *memMovementRepo) Create(_ context.Context, movement *stock.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *memMovementRepo) CreateBatch(ctx context.Context, movements []*stock.StockMovement) error {
	for _, m := range movements {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *memMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.movements {
		if r.movements[i].ID == id {
			cp := r.movements[i]
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) FindByKey(_ context.Context, key stock.LedgerKey, _ shared.Filter) ([]stock.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.StockMovement
	for i := range r.movements {
		if r.movements[i].Key() == key {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindByWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]stock.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.StockMovement
	for i := range r.movements {
		if r.movements[i].WarehouseID == warehouseID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) ([]stock.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.StockMovement
	for i := range r.movements {
		if r.movements[i].OrderID != nil && *r.movements[i].OrderID == orderID {
			out = append(out, r.movements[i])
		}
	}
	return out, nil
}

func (r *memMovementRepo) SumQuantity(_ context.Context, key stock.LedgerKey) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum := decimal.Zero
	for i := range r.movements {
		if r.movements[i].Key() == key {
			sum = sum.Add(r.movements[i].Quantity)
		}
	}
	return sum, nil
}

func (r *memMovementRepo) Count(_ context.Context, key stock.LedgerKey) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.movements {
		if r.movements[i].Key() == key {
			n++
		}
	}
	return n, nil
}

var _ stock.StockMovementRepository = (*memMovementRepo)(nil)

// stubShipmentService records created shipments
type stubShipmentService struct {
	mu       sync.Mutex
	requests []CreateShipmentRequest
	fail     error
}

func (s *stubShipmentService) CreateShipment(_ context.Context, req CreateShipmentRequest) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return uuid.Nil, s.fail
	}
	s.requests = append(s.requests, req)
	return uuid.New(), nil
}

var _ ShipmentService = (*stubShipmentService)(nil)

// stubCatalog knows a fixed set of products
type stubCatalog struct {
	known map[uuid.UUID]bool
}

func (c *stubCatalog) ProductsExist(_ context.Context, productIDs []uuid.UUID) (bool, error) {
	for _, id := range productIDs {
		if !c.known[id] {
			return false, nil
		}
	}
	return true, nil
}

var _ ProductCatalog = (*stubCatalog)(nil)
