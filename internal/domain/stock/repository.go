package stock

import (
	"context"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRecordRepository defines the interface for stock record persistence
type StockRecordRepository interface {
	// FindByID finds a stock record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockRecord, error)

	// FindByKey finds the stock record for a ledger key.
	// Returns shared.ErrNotFound when no record exists for the key.
	FindByKey(ctx context.Context, key LedgerKey) (*StockRecord, error)

	// GetOrCreate returns the stock record for a key, creating a zero-quantity
	// record if none exists yet. Creation is conflict-safe: concurrent callers
	// for the same key all observe the same row.
	GetOrCreate(ctx context.Context, key LedgerKey) (*StockRecord, error)

	// FindByWarehouse finds all stock records in a warehouse
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// FindByProduct finds stock records for a product across all warehouses
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]StockRecord, error)

	// QuantitiesByProduct returns the quantity on hand per product in a
	// warehouse for a batch of product IDs. Products with no record map to zero.
	QuantitiesByProduct(ctx context.Context, warehouseID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// Save creates or updates a stock record without a version check
	Save(ctx context.Context, record *StockRecord) error

	// SaveWithLock updates a stock record with an optimistic version check.
	// Returns shared.ErrConcurrencyConflict if the record was modified since
	// it was loaded.
	SaveWithLock(ctx context.Context, record *StockRecord, expectedVersion int) error

	// CountWithStock counts records in a warehouse with a positive quantity on
	// hand. Used by the deactivation guard.
	CountWithStock(ctx context.Context, warehouseID uuid.UUID) (int64, error)
}

// StockMovementRepository defines the interface for the append-only movement
// ledger. Movements are created and read, never updated or deleted.
type StockMovementRepository interface {
	// Create appends a movement row to the ledger
	Create(ctx context.Context, movement *StockMovement) error

	// CreateBatch appends several movement rows in one statement
	CreateBatch(ctx context.Context, movements []*StockMovement) error

	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindByKey lists movements for a ledger key, newest first
	FindByKey(ctx context.Context, key LedgerKey, filter shared.Filter) ([]StockMovement, error)

	// FindByWarehouse lists movements for a warehouse, newest first
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindByOrderID lists movements linked to a customer order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]StockMovement, error)

	// SumQuantity returns the signed quantity total for a ledger key. A healthy
	// ledger sums to the stock record's quantity on hand.
	SumQuantity(ctx context.Context, key LedgerKey) (decimal.Decimal, error)

	// Count counts movements for a ledger key
	Count(ctx context.Context, key LedgerKey) (int64, error)
}
