package stock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fanstore/backend/internal/domain/replenishment"
	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/fanstore/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeStockRecordRepo is an in-memory StockRecordRepository with real
// optimistic-lock semantics: loads hand out copies, and SaveWithLock fails
// with ErrConcurrencyConflict when the stored version moved on.
type fakeStockRecordRepo struct {
	mu      sync.Mutex
	records map[stock.LedgerKey]*stock.StockRecord
}

func newFakeStockRecordRepo() *fakeStockRecordRepo {
	return &fakeStockRecordRepo{records: make(map[stock.LedgerKey]*stock.StockRecord)}
}

func (r *fakeStockRecordRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockRecord, error) {
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

func (r *fakeStockRecordRepo) FindByKey(_ context.Context, key stock.LedgerKey) (*stock.StockRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeStockRecordRepo) GetOrCreate(_ context.Context, key stock.LedgerKey) (*stock.StockRecord, error) {
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

func (r *fakeStockRecordRepo) FindByWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]stock.StockRecord, error) {
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

func (r *fakeStockRecordRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]stock.StockRecord, error) {
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

func (r *fakeStockRecordRepo) QuantitiesByProduct(_ context.Context, warehouseID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[uuid.UUID]decimal.Decimal)
	for _, rec := range r.records {
		if rec.WarehouseID != warehouseID {
			continue
		}
		for _, pid := range productIDs {
			if rec.ProductID == pid {
				result[pid] = result[pid].Add(rec.QuantityOnHand)
			}
		}
	}
	return result, nil
}

func (r *fakeStockRecordRepo) Save(_ context.Context, record *stock.StockRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *record
	r.records[record.Key()] = &cp
	return nil
}

func (r *fakeStockRecordRepo) SaveWithLock(_ context.Context, record *stock.StockRecord, expectedVersion int) error {
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

func (r *fakeStockRecordRepo) CountWithStock(_ context.Context, warehouseID uuid.UUID) (int64, error) {
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

var _ stock.StockRecordRepository = (*fakeStockRecordRepo)(nil)

// fakeMovementRepo is an append-only in-memory StockMovementRepository
type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []stock.StockMovement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{}
}

func (r *fakeMovementRepo) Create(_ context.Context, movement *stock.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *fakeMovementRepo) CreateBatch(ctx context.Context, movements []*stock.StockMovement) error {
	for _, m := range movements {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.StockMovement, error) {
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

func (r *fakeMovementRepo) FindByKey(_ context.Context, key stock.LedgerKey, _ shared.Filter) ([]stock.StockMovement, error) {
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

func (r *fakeMovementRepo) FindByWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]stock.StockMovement, error) {
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

func (r *fakeMovementRepo) FindByOrderID(_ context.Context, orderID uuid.UUID) ([]stock.StockMovement, error) {
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

func (r *fakeMovementRepo) SumQuantity(_ context.Context, key stock.LedgerKey) (decimal.Decimal, error) {
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

func (r *fakeMovementRepo) Count(_ context.Context, key stock.LedgerKey) (int64, error) {
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

var _ stock.StockMovementRepository = (*fakeMovementRepo)(nil)

// fakeRequestRepo is an in-memory InventoryRequestRepository
type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*replenishment.InventoryRequest
	seq      int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]*replenishment.InventoryRequest)}
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*replenishment.InventoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *req
	cp.Items = append([]replenishment.RequestItem(nil), req.Items...)
	return &cp, nil
}

func (r *fakeRequestRepo) FindByNumber(_ context.Context, number string) (*replenishment.InventoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.RequestNumber == number {
			cp := *req
			cp.Items = append([]replenishment.RequestItem(nil), req.Items...)
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeRequestRepo) FindAll(_ context.Context, filter shared.Filter) ([]replenishment.InventoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []replenishment.InventoryRequest
	for _, req := range r.requests {
		if status, ok := filter.Filters["status"]; ok && string(req.Status) != status {
			continue
		}
		out = append(out, *req)
	}
	return out, nil
}

func (r *fakeRequestRepo) FindByRequestingWarehouse(_ context.Context, warehouseID uuid.UUID, _ shared.Filter) ([]replenishment.InventoryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []replenishment.InventoryRequest
	for _, req := range r.requests {
		if req.RequestingWarehouseID == warehouseID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) CountOpenByWarehouse(_ context.Context, warehouseID uuid.UUID) (int64, error) {
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

func (r *fakeRequestRepo) Save(_ context.Context, request *replenishment.InventoryRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *request
	cp.Items = append([]replenishment.RequestItem(nil), request.Items...)
	r.requests[request.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) SaveWithLock(_ context.Context, request *replenishment.InventoryRequest, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.requests[request.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	cp := *request
	cp.Items = append([]replenishment.RequestItem(nil), request.Items...)
	r.requests[request.ID] = &cp
	return nil
}

func (r *fakeRequestRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.requests)), nil
}

func (r *fakeRequestRepo) NextRequestNumber(_ context.Context, prefix string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("%s-%06d", prefix, r.seq), nil
}

var _ replenishment.InventoryRequestRepository = (*fakeRequestRepo)(nil)

// fakeIdempotencyStore is an in-memory shared.IdempotencyStore
type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *fakeIdempotencyStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }

var _ shared.IdempotencyStore = (*fakeIdempotencyStore)(nil)
