package stock

import (
	"time"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRecord holds the quantity on hand for one product (and optional
// variant) at one warehouse. It is the aggregate root for ledger operations;
// the composite identifier is WarehouseID + ProductID + VariantID.
//
// VariantID is stored as uuid.Nil when the product has no variant so the
// composite key stays a plain unique index.
type StockRecord struct {
	shared.BaseAggregateRoot
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_record_key,priority:1"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_record_key,priority:2"`
	VariantID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_record_key,priority:3"`
	QuantityOnHand decimal.Decimal `gorm:"type:decimal(18,0);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockRecord) TableName() string {
	return "stock_records"
}

// NewStockRecord creates an empty stock record for a warehouse-product key
func NewStockRecord(warehouseID, productID, variantID uuid.UUID) (*StockRecord, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &StockRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		ProductID:         productID,
		VariantID:         variantID,
		QuantityOnHand:    decimal.Zero,
	}, nil
}

// Apply applies a signed quantity delta to the record. The delta must be a
// non-zero whole number and must not drive the quantity on hand below zero.
func (r *StockRecord) Apply(delta decimal.Decimal) error {
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity delta cannot be zero")
	}
	if !delta.IsInteger() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a whole number")
	}

	next := r.QuantityOnHand.Add(delta)
	if next.IsNegative() {
		return shared.ErrInsufficientStock
	}

	r.QuantityOnHand = next
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// CanFulfill returns true if the quantity on hand covers the requested amount
func (r *StockRecord) CanFulfill(quantity decimal.Decimal) bool {
	return r.QuantityOnHand.GreaterThanOrEqual(quantity)
}

// HasStock returns true if any stock is on hand
func (r *StockRecord) HasStock() bool {
	return r.QuantityOnHand.IsPositive()
}

// Key returns the composite ledger key of the record
func (r *StockRecord) Key() LedgerKey {
	return LedgerKey{
		WarehouseID: r.WarehouseID,
		ProductID:   r.ProductID,
		VariantID:   r.VariantID,
	}
}

// LedgerKey identifies one (warehouse, product, variant) stock position
type LedgerKey struct {
	WarehouseID uuid.UUID
	ProductID   uuid.UUID
	VariantID   uuid.UUID
}
