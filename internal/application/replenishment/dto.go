package replenishment

import (
	"time"

	"github.com/fanstore/backend/internal/domain/replenishment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role names accepted by the workflow. Staff raise and cancel requests;
// admins approve, reject, ship, and deliver.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Actor identifies the authenticated caller of a workflow operation
type Actor struct {
	ID   uuid.UUID
	Role string
}

// IsAdmin returns true if the actor carries the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CreateRequestItem is one product line of a create request
type CreateRequestItem struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Note      string          `json:"note,omitempty" binding:"max=255"`
}

// CreateRequestRequest is the request to raise an inventory request.
// Callers name their store; the bound branch warehouse is resolved
// server-side.
type CreateRequestRequest struct {
	StoreID uuid.UUID           `json:"store_id" binding:"required"`
	Items   []CreateRequestItem `json:"items" binding:"required,min=1,dive"`
	Note    string              `json:"note,omitempty" binding:"max=500"`
}

// ApprovalItem is the approver's quantity decision for one item
type ApprovalItem struct {
	ItemID   uuid.UUID       `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// ApproveRequestRequest is the request to approve an inventory request.
// SourceWarehouseID defaults to the requesting warehouse's parent.
type ApproveRequestRequest struct {
	SourceWarehouseID *uuid.UUID     `json:"source_warehouse_id,omitempty"`
	Items             []ApprovalItem `json:"items,omitempty" binding:"dive"`
}

// RejectRequestRequest is the request to reject an inventory request
type RejectRequestRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// CancelRequestRequest is the request to cancel an inventory request
type CancelRequestRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// RequestListFilter is the filter for listing inventory requests
type RequestListFilter struct {
	Page                  int        `form:"page"`
	PageSize              int        `form:"page_size"`
	Status                string     `form:"status" binding:"omitempty,oneof=pending approved rejected shipping delivered cancelled"`
	RequestingWarehouseID *uuid.UUID `form:"requesting_warehouse_id"`
	SourceWarehouseID     *uuid.UUID `form:"source_warehouse_id"`
}

// RequestItemResponse is one item of a request response
type RequestItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	VariantID         *uuid.UUID      `json:"variant_id,omitempty"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	ApprovedQuantity  decimal.Decimal `json:"approved_quantity"`
	Note              string          `json:"note,omitempty"`
}

// RequestResponse is the response for inventory request operations
type RequestResponse struct {
	ID                    uuid.UUID             `json:"id"`
	RequestNumber         string                `json:"request_number"`
	Status                string                `json:"status"`
	RequestingWarehouseID uuid.UUID             `json:"requesting_warehouse_id"`
	SourceWarehouseID     *uuid.UUID            `json:"source_warehouse_id,omitempty"`
	RequestedBy           uuid.UUID             `json:"requested_by"`
	ApprovedBy            *uuid.UUID            `json:"approved_by,omitempty"`
	Note                  string                `json:"note,omitempty"`
	RejectReason          string                `json:"reject_reason,omitempty"`
	CancelReason          string                `json:"cancel_reason,omitempty"`
	ShipmentID            *uuid.UUID            `json:"shipment_id,omitempty"`
	ApprovedAt            *time.Time            `json:"approved_at,omitempty"`
	ShippedAt             *time.Time            `json:"shipped_at,omitempty"`
	DeliveredAt           *time.Time            `json:"delivered_at,omitempty"`
	Items                 []RequestItemResponse `json:"items"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
	Version               int                   `json:"version"`
}

// ToRequestItemResponse converts a domain request item to a response DTO
func ToRequestItemResponse(item *replenishment.RequestItem) RequestItemResponse {
	resp := RequestItemResponse{
		ID:                item.ID,
		ProductID:         item.ProductID,
		RequestedQuantity: item.RequestedQuantity,
		ApprovedQuantity:  item.ApprovedQuantity,
		Note:              item.Note,
	}
	if item.VariantID != uuid.Nil {
		variantID := item.VariantID
		resp.VariantID = &variantID
	}
	return resp
}

// ToRequestResponse converts a domain request to a response DTO
func ToRequestResponse(r *replenishment.InventoryRequest) RequestResponse {
	items := make([]RequestItemResponse, len(r.Items))
	for i := range r.Items {
		items[i] = ToRequestItemResponse(&r.Items[i])
	}
	return RequestResponse{
		ID:                    r.ID,
		RequestNumber:         r.RequestNumber,
		Status:                r.Status.String(),
		RequestingWarehouseID: r.RequestingWarehouseID,
		SourceWarehouseID:     r.SourceWarehouseID,
		RequestedBy:           r.RequestedBy,
		ApprovedBy:            r.ApprovedBy,
		Note:                  r.Note,
		RejectReason:          r.RejectReason,
		CancelReason:          r.CancelReason,
		ShipmentID:            r.ShipmentID,
		ApprovedAt:            r.ApprovedAt,
		ShippedAt:             r.ShippedAt,
		DeliveredAt:           r.DeliveredAt,
		Items:                 items,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
		Version:               r.Version,
	}
}

// ToRequestResponses converts a slice of requests to response DTOs
func ToRequestResponses(requests []replenishment.InventoryRequest) []RequestResponse {
	responses := make([]RequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToRequestResponse(&requests[i])
	}
	return responses
}
