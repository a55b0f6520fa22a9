package replenishment

import (
	"context"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryRequestRepository defines the interface for request persistence
type InventoryRequestRepository interface {
	// FindByID finds a request by its ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryRequest, error)

	// FindByNumber finds a request by its request number, items included
	FindByNumber(ctx context.Context, number string) (*InventoryRequest, error)

	// FindAll finds requests matching the filter, items included.
	// Filter keys: "status", "requesting_warehouse_id", "source_warehouse_id".
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryRequest, error)

	// FindByRequestingWarehouse lists requests raised by a warehouse
	FindByRequestingWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]InventoryRequest, error)

	// CountOpenByWarehouse counts non-terminal requests that reference the
	// warehouse as requester or source. Used by the deactivation guard.
	CountOpenByWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error)

	// Save creates or updates a request together with its items
	Save(ctx context.Context, request *InventoryRequest) error

	// SaveWithLock updates a request with an optimistic version check.
	// Returns shared.ErrConcurrencyConflict on a stale version.
	SaveWithLock(ctx context.Context, request *InventoryRequest, expectedVersion int) error

	// Count counts requests matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// NextRequestNumber produces the next sequential request number for the
	// given prefix, e.g. "IR-2026-000042".
	NextRequestNumber(ctx context.Context, prefix string) (string, error)
}
