package store

import (
	"context"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StoreInventoryRepository defines the interface for availability persistence
type StoreInventoryRepository interface {
	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StoreInventoryRecord, error)

	// FindByStoreAndProduct finds the record for a store-product pair.
	// Returns shared.ErrNotFound when the product was never configured for
	// the store.
	FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*StoreInventoryRecord, error)

	// GetOrCreate returns the record for a store-product pair, creating an
	// unavailable record if none exists. Conflict-safe for concurrent callers.
	GetOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*StoreInventoryRecord, error)

	// FindByStore lists records for a store. Filter key "is_available"
	// restricts to one side of the switch.
	FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]StoreInventoryRecord, error)

	// Save creates or updates a record
	Save(ctx context.Context, record *StoreInventoryRecord) error

	// Count counts records for a store matching the filter
	Count(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)
}
