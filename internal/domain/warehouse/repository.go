package warehouse

import (
	"context"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// WarehouseRepository defines the interface for warehouse persistence
type WarehouseRepository interface {
	// FindByID finds a warehouse by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)

	// FindByCode finds a warehouse by its code
	FindByCode(ctx context.Context, code string) (*Warehouse, error)

	// FindByStoreID finds the branch warehouse bound to a retail store.
	// Returns shared.ErrNotFound when no active warehouse serves the store.
	FindByStoreID(ctx context.Context, storeID uuid.UUID) (*Warehouse, error)

	// FindAll finds all warehouses matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, error)

	// FindActive finds all active warehouses, optionally restricted by type
	// and excluding one warehouse (used by transfer source/destination pickers).
	FindActive(ctx context.Context, filter shared.Filter) ([]Warehouse, error)

	// FindChildren finds all warehouses whose parent is the given warehouse
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Warehouse, error)

	// FindByIDs finds multiple warehouses by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Warehouse, error)

	// Save creates or updates a warehouse
	Save(ctx context.Context, warehouse *Warehouse) error

	// Delete hard-deletes a warehouse
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts warehouses matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a warehouse with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// ExistsActiveByStoreID checks if an active warehouse is already bound to
	// the given store (at most one is allowed).
	ExistsActiveByStoreID(ctx context.Context, storeID uuid.UUID, excludeID uuid.UUID) (bool, error)
}
