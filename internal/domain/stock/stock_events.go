package stock

import (
	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant for StockRecord
const AggregateTypeStockRecord = "StockRecord"

// Event type constants for the stock ledger
const (
	EventTypeStockMovementApplied = "StockMovementApplied"
	EventTypeStockTransferred     = "StockTransferred"
	EventTypeStockDepleted        = "StockDepleted"
)

// StockMovementAppliedEvent is published after a movement has been committed
// to the ledger together with its stock record update.
type StockMovementAppliedEvent struct {
	shared.BaseDomainEvent
	MovementID   uuid.UUID       `json:"movement_id"`
	WarehouseID  uuid.UUID       `json:"warehouse_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	VariantID    uuid.UUID       `json:"variant_id"`
	MovementType MovementType    `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// NewStockMovementAppliedEvent creates a new StockMovementAppliedEvent
func NewStockMovementAppliedEvent(record *StockRecord, movement *StockMovement) *StockMovementAppliedEvent {
	return &StockMovementAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementApplied, AggregateTypeStockRecord, record.ID),
		MovementID:      movement.ID,
		WarehouseID:     movement.WarehouseID,
		ProductID:       movement.ProductID,
		VariantID:       movement.VariantID,
		MovementType:    movement.Type,
		Quantity:        movement.Quantity,
		BalanceAfter:    movement.BalanceAfter,
	}
}

// StockTransferredEvent is published once per transfer, after both legs have
// committed in the same transaction.
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	VariantID       uuid.UUID       `json:"variant_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	OutMovementID   uuid.UUID       `json:"out_movement_id"`
	InMovementID    uuid.UUID       `json:"in_movement_id"`
}

// NewStockTransferredEvent creates a new StockTransferredEvent
func NewStockTransferredEvent(sourceRecord *StockRecord, out, in *StockMovement) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTransferred, AggregateTypeStockRecord, sourceRecord.ID),
		FromWarehouseID: out.WarehouseID,
		ToWarehouseID:   in.WarehouseID,
		ProductID:       out.ProductID,
		VariantID:       out.VariantID,
		Quantity:        in.Quantity,
		OutMovementID:   out.ID,
		InMovementID:    in.ID,
	}
}

// StockDepletedEvent is published when a movement drives a stock record to zero
type StockDepletedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID `json:"warehouse_id"`
	ProductID   uuid.UUID `json:"product_id"`
	VariantID   uuid.UUID `json:"variant_id"`
}

// NewStockDepletedEvent creates a new StockDepletedEvent
func NewStockDepletedEvent(record *StockRecord) *StockDepletedEvent {
	return &StockDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDepleted, AggregateTypeStockRecord, record.ID),
		WarehouseID:     record.WarehouseID,
		ProductID:       record.ProductID,
		VariantID:       record.VariantID,
	}
}
