package store

import (
	"time"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StoreInventoryRecord controls whether a product is purchasable at a retail
// store. Availability is a merchandising switch, deliberately independent of
// the quantity on hand in the branch warehouse: a store can hide an in-stock
// product or keep listing an out-of-stock one.
type StoreInventoryRecord struct {
	shared.BaseAggregateRoot
	StoreID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_inventory_key,priority:1"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_inventory_key,priority:2"`
	IsAvailable bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (StoreInventoryRecord) TableName() string {
	return "store_inventory_records"
}

// NewStoreInventoryRecord creates an availability record for a store-product
// pair. New records start unavailable until a staff member switches them on.
func NewStoreInventoryRecord(storeID, productID uuid.UUID) (*StoreInventoryRecord, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &StoreInventoryRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StoreID:           storeID,
		ProductID:         productID,
		IsAvailable:       false,
	}, nil
}

// SetAvailability sets the availability flag. Returns true if the flag
// actually changed; setting the current value is a no-op so the operation is
// idempotent.
func (r *StoreInventoryRecord) SetAvailability(available bool) bool {
	if r.IsAvailable == available {
		return false
	}

	r.IsAvailable = available
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return true
}
