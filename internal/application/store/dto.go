package store

import (
	"time"

	"github.com/fanstore/backend/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SetAvailabilityRequest is the request to switch a product's availability in
// a store.
type SetAvailabilityRequest struct {
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	IsAvailable bool      `json:"is_available"`
}

// StoreProductListFilter is the filter for listing a store's products
type StoreProductListFilter struct {
	Page        int   `form:"page"`
	PageSize    int   `form:"page_size"`
	IsAvailable *bool `form:"is_available"`
}

// AvailabilityResponse is the response for availability operations
type AvailabilityResponse struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	ProductID   uuid.UUID `json:"product_id"`
	IsAvailable bool      `json:"is_available"`
	Changed     bool      `json:"changed"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StoreProductResponse is one row of a store's product list: the availability
// switch enriched with the branch warehouse's quantity on hand.
type StoreProductResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name,omitempty"`
	IsAvailable    bool            `json:"is_available"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToAvailabilityResponse converts a domain record to a response DTO
func ToAvailabilityResponse(r *store.StoreInventoryRecord, changed bool) AvailabilityResponse {
	return AvailabilityResponse{
		ID:          r.ID,
		StoreID:     r.StoreID,
		ProductID:   r.ProductID,
		IsAvailable: r.IsAvailable,
		Changed:     changed,
		UpdatedAt:   r.UpdatedAt,
	}
}
