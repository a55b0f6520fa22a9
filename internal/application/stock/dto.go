package stock

import (
	"time"

	"github.com/fanstore/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ApplyMovementRequest is the request to record a stock movement.
// Quantity is the positive magnitude for import and export movements; the
// service derives the ledger sign from the type. Adjustments pass a signed
// quantity directly. Transfers are not accepted here; use the transfer engine.
type ApplyMovementRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	VariantID   *uuid.UUID      `json:"variant_id,omitempty"`
	Type        string          `json:"type" binding:"required,oneof=import export adjustment"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	OrderID     *uuid.UUID      `json:"order_id,omitempty"`
	Note        string          `json:"note,omitempty" binding:"max=255"`
}

// TransferRequest is the request to move stock between two warehouses.
// IdempotencyKey, when set, guards against the same transfer being applied
// twice by a retried client call.
type TransferRequest struct {
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id" binding:"required"`
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	VariantID       *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Note            string          `json:"note,omitempty" binding:"max=255"`
	IdempotencyKey  string          `json:"idempotency_key,omitempty" binding:"max=100"`
}

// MovementListFilter is the filter for listing ledger movements
type MovementListFilter struct {
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	ProductID   *uuid.UUID `form:"product_id"`
	VariantID   *uuid.UUID `form:"variant_id"`
	Type        string     `form:"type"`
}

// StockRecordResponse is the response for one stock position
type StockRecordResponse struct {
	ID             uuid.UUID       `json:"id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	VariantID      *uuid.UUID      `json:"variant_id,omitempty"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// MovementResponse is the response for one ledger movement
type MovementResponse struct {
	ID              uuid.UUID       `json:"id"`
	WarehouseID     uuid.UUID       `json:"warehouse_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	VariantID       *uuid.UUID      `json:"variant_id,omitempty"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	BalanceBefore   decimal.Decimal `json:"balance_before"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	FromWarehouseID *uuid.UUID      `json:"from_warehouse_id,omitempty"`
	ToWarehouseID   *uuid.UUID      `json:"to_warehouse_id,omitempty"`
	OrderID         *uuid.UUID      `json:"order_id,omitempty"`
	Note            string          `json:"note,omitempty"`
	CreatedBy       *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// TransferResponse is the response for a completed transfer: both ledger legs
type TransferResponse struct {
	OutMovement MovementResponse `json:"out_movement"`
	InMovement  MovementResponse `json:"in_movement"`
}

// ProductQuantityResponse is one entry of a batched quantity lookup
type ProductQuantityResponse struct {
	ProductID      uuid.UUID       `json:"product_id"`
	QuantityOnHand decimal.Decimal `json:"quantity_on_hand"`
}

// ToStockRecordResponse converts a domain stock record to a response DTO
func ToStockRecordResponse(r *stock.StockRecord) StockRecordResponse {
	resp := StockRecordResponse{
		ID:             r.ID,
		WarehouseID:    r.WarehouseID,
		ProductID:      r.ProductID,
		QuantityOnHand: r.QuantityOnHand,
		UpdatedAt:      r.UpdatedAt,
		Version:        r.Version,
	}
	if r.VariantID != uuid.Nil {
		variantID := r.VariantID
		resp.VariantID = &variantID
	}
	return resp
}

// ToStockRecordResponses converts a slice of stock records to response DTOs
func ToStockRecordResponses(records []stock.StockRecord) []StockRecordResponse {
	responses := make([]StockRecordResponse, len(records))
	for i := range records {
		responses[i] = ToStockRecordResponse(&records[i])
	}
	return responses
}

// ToMovementResponse converts a domain movement to a response DTO
func ToMovementResponse(m *stock.StockMovement) MovementResponse {
	resp := MovementResponse{
		ID:              m.ID,
		WarehouseID:     m.WarehouseID,
		ProductID:       m.ProductID,
		Type:            m.Type.String(),
		Quantity:        m.Quantity,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		FromWarehouseID: m.FromWarehouseID,
		ToWarehouseID:   m.ToWarehouseID,
		OrderID:         m.OrderID,
		Note:            m.Note,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
	if m.VariantID != uuid.Nil {
		variantID := m.VariantID
		resp.VariantID = &variantID
	}
	return resp
}

// ToMovementResponses converts a slice of movements to response DTOs
func ToMovementResponses(movements []stock.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses
}

// variantOrNil normalizes an optional variant pointer to the stored form
func variantOrNil(variantID *uuid.UUID) uuid.UUID {
	if variantID == nil {
		return uuid.Nil
	}
	return *variantID
}
