package stock

import (
	"time"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType represents the cause of a stock movement
type MovementType string

const (
	// MovementTypeImport represents stock entering a warehouse from outside
	// the system (supplier receiving, initial stock).
	MovementTypeImport MovementType = "import"
	// MovementTypeExport represents stock leaving the system (customer order
	// shipment, write-off).
	MovementTypeExport MovementType = "export"
	// MovementTypeAdjustment represents a manual correction in either direction.
	MovementTypeAdjustment MovementType = "adjustment"
	// MovementTypeTransfer represents one leg of an inter-warehouse transfer:
	// negative at the source warehouse, positive at the destination.
	MovementTypeTransfer MovementType = "transfer"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeImport, MovementTypeExport, MovementTypeAdjustment, MovementTypeTransfer:
		return true
	}
	return false
}

// StockMovement is one immutable row in the append-only movement ledger.
// Quantity is SIGNED: imports and transfer-ins are positive, exports and
// transfer-outs are negative, adjustments carry their own sign. The running
// sum of Quantity for a ledger key always equals the stock record's quantity
// on hand; corrections are made with new rows, never by editing old ones.
type StockMovement struct {
	shared.BaseEntity
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_key,priority:1"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_key,priority:2"`
	VariantID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movement_key,priority:3"`
	Type            MovementType    `gorm:"type:varchar(20);not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,0);not null"` // Signed delta
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(18,0);not null"` // Quantity on hand before this movement
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,0);not null"` // Quantity on hand after this movement
	FromWarehouseID *uuid.UUID      `gorm:"type:uuid;index"`             // Transfer legs only
	ToWarehouseID   *uuid.UUID      `gorm:"type:uuid;index"`             // Transfer legs only
	OrderID         *uuid.UUID      `gorm:"type:uuid;index"`             // Customer order behind an export
	Note            string          `gorm:"type:varchar(255)"`
	CreatedBy       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new movement row for a ledger key. The quantity
// is the signed delta already applied to the stock record; balances are the
// record's quantity on hand immediately before and after.
func NewStockMovement(
	key LedgerKey,
	movementType MovementType,
	quantity decimal.Decimal,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
) (*StockMovement, error) {
	if key.WarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if key.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	if !quantity.IsInteger() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a whole number")
	}
	switch movementType {
	case MovementTypeImport:
		if quantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Import quantity must be positive")
		}
	case MovementTypeExport:
		if quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Export quantity must be negative")
		}
	}
	if !balanceBefore.Add(quantity).Equal(balanceAfter) {
		return nil, shared.ErrConsistency
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		WarehouseID:   key.WarehouseID,
		ProductID:     key.ProductID,
		VariantID:     key.VariantID,
		Type:          movementType,
		Quantity:      quantity,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
	}, nil
}

// NewTransferMovement creates one leg of an inter-warehouse transfer. Both
// legs of a transfer carry the same from/to correlation so the pair can be
// reassembled from either side of the ledger.
func NewTransferMovement(
	key LedgerKey,
	quantity decimal.Decimal,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
	fromWarehouseID, toWarehouseID uuid.UUID,
) (*StockMovement, error) {
	if fromWarehouseID == uuid.Nil || toWarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Transfer movements require both source and destination warehouses")
	}
	if fromWarehouseID == toWarehouseID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and destination warehouses must differ")
	}
	if key.WarehouseID != fromWarehouseID && key.WarehouseID != toWarehouseID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Transfer leg must belong to the source or destination warehouse")
	}
	if key.WarehouseID == fromWarehouseID && quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer-out quantity must be negative")
	}
	if key.WarehouseID == toWarehouseID && quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Transfer-in quantity must be positive")
	}

	m, err := NewStockMovement(key, MovementTypeTransfer, quantity, balanceBefore, balanceAfter)
	if err != nil {
		return nil, err
	}
	m.FromWarehouseID = &fromWarehouseID
	m.ToWarehouseID = &toWarehouseID
	return m, nil
}

// WithNote sets the free-text note for the movement
func (m *StockMovement) WithNote(note string) *StockMovement {
	m.Note = note
	return m
}

// WithOrderID links the movement to a customer order
func (m *StockMovement) WithOrderID(orderID uuid.UUID) *StockMovement {
	m.OrderID = &orderID
	return m
}

// WithCreatedBy records the actor who caused the movement
func (m *StockMovement) WithCreatedBy(actorID uuid.UUID) *StockMovement {
	m.CreatedBy = &actorID
	return m
}

// WithCreatedAt overrides the movement timestamp. Used by the transfer engine
// to stamp both legs of a transfer with the same instant.
func (m *StockMovement) WithCreatedAt(t time.Time) *StockMovement {
	m.CreatedAt = t
	m.UpdatedAt = t
	return m
}

// IsInbound returns true if the movement increased the quantity on hand
func (m *StockMovement) IsInbound() bool {
	return m.Quantity.IsPositive()
}

// IsTransferLeg returns true if the movement is one leg of a transfer
func (m *StockMovement) IsTransferLeg() bool {
	return m.Type == MovementTypeTransfer
}

// Key returns the composite ledger key of the movement
func (m *StockMovement) Key() LedgerKey {
	return LedgerKey{
		WarehouseID: m.WarehouseID,
		ProductID:   m.ProductID,
		VariantID:   m.VariantID,
	}
}
