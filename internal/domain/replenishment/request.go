package replenishment

import (
	"strings"
	"time"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryRequest is the aggregate root of the replenishment workflow: a
// branch warehouse asks a central warehouse for stock. The request moves
// through pending → approved → shipping → delivered, with rejected and
// cancelled as the off-ramps. Stock moves exactly once, when the request is
// marked delivered.
type InventoryRequest struct {
	shared.BaseAggregateRoot
	RequestNumber string        `gorm:"type:varchar(50);not null;uniqueIndex:idx_inventory_request_number"`
	Status        RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index"`

	// RequestingWarehouseID is the branch warehouse that receives the stock
	RequestingWarehouseID uuid.UUID `gorm:"type:uuid;not null;index"`
	// SourceWarehouseID is frozen at approval time; nil while pending
	SourceWarehouseID *uuid.UUID `gorm:"type:uuid;index"`

	RequestedBy uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy  *uuid.UUID `gorm:"type:uuid"`

	Note         string `gorm:"type:varchar(500)"`
	RejectReason string `gorm:"type:varchar(500)"`
	CancelReason string `gorm:"type:varchar(500)"`

	// ShipmentID references the logistics shipment created when goods leave
	// the source warehouse.
	ShipmentID *uuid.UUID `gorm:"type:uuid"`

	ApprovedAt  *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time

	Items []RequestItem `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InventoryRequest) TableName() string {
	return "inventory_requests"
}

// RequestItem is one product line on an inventory request. ApprovedQuantity
// stays zero until the request is approved; the approver may reduce but never
// raise the requested quantity.
type RequestItem struct {
	shared.BaseEntity
	RequestID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID         uuid.UUID       `gorm:"type:uuid;not null"`
	RequestedQuantity decimal.Decimal `gorm:"type:decimal(18,0);not null"`
	ApprovedQuantity  decimal.Decimal `gorm:"type:decimal(18,0);not null;default:0"`
	Note              string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (RequestItem) TableName() string {
	return "inventory_request_items"
}

// NewRequestItem creates a request line for a product
func NewRequestItem(productID, variantID uuid.UUID, requestedQuantity decimal.Decimal, note string) (*RequestItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if err := validateQuantity(requestedQuantity); err != nil {
		return nil, err
	}

	return &RequestItem{
		BaseEntity:        shared.NewBaseEntity(),
		ProductID:         productID,
		VariantID:         variantID,
		RequestedQuantity: requestedQuantity,
		ApprovedQuantity:  decimal.Zero,
		Note:              note,
	}, nil
}

// NewInventoryRequest creates a pending request with at least one item
func NewInventoryRequest(requestNumber string, requestingWarehouseID, requestedBy uuid.UUID, items []*RequestItem, note string) (*InventoryRequest, error) {
	if err := validateRequestNumber(requestNumber); err != nil {
		return nil, err
	}
	if requestingWarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Requesting warehouse ID cannot be empty")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Requester ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_REQUEST", "An inventory request needs at least one item")
	}

	seen := make(map[[2]uuid.UUID]bool, len(items))
	for _, item := range items {
		key := [2]uuid.UUID{item.ProductID, item.VariantID}
		if seen[key] {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "Each product can appear on a request only once")
		}
		seen[key] = true
	}

	r := &InventoryRequest{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		RequestNumber:         strings.ToUpper(requestNumber),
		Status:                RequestStatusPending,
		RequestingWarehouseID: requestingWarehouseID,
		RequestedBy:           requestedBy,
		Note:                  note,
	}
	for _, item := range items {
		item.RequestID = r.ID
		r.Items = append(r.Items, *item)
	}

	r.AddDomainEvent(NewRequestCreatedEvent(r))

	return r, nil
}

// ItemApproval carries the approver's quantity decision for one request item
type ItemApproval struct {
	ItemID           uuid.UUID
	ApprovedQuantity decimal.Decimal
}

// Approve moves a pending request to approved, freezing the source warehouse
// and the approved quantity of every item. Items without an explicit decision
// are approved at their requested quantity. An approved quantity may be lower
// than requested but never higher, and never zero.
func (r *InventoryRequest) Approve(approverID, sourceWarehouseID uuid.UUID, approvals []ItemApproval) error {
	if !r.Status.CanTransitionTo(RequestStatusApproved) {
		return shared.ErrInvalidState
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Approver ID cannot be empty")
	}
	if sourceWarehouseID == uuid.Nil {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Source warehouse ID cannot be empty")
	}
	if sourceWarehouseID == r.RequestingWarehouseID {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Source and requesting warehouses must differ")
	}

	decided := make(map[uuid.UUID]decimal.Decimal, len(approvals))
	for _, a := range approvals {
		decided[a.ItemID] = a.ApprovedQuantity
	}

	for i := range r.Items {
		item := &r.Items[i]
		qty, ok := decided[item.ID]
		if !ok {
			qty = item.RequestedQuantity
		}
		if err := validateApprovedQuantity(qty); err != nil {
			return err
		}
		if qty.GreaterThan(item.RequestedQuantity) {
			return shared.NewDomainError("INVALID_QUANTITY", "Approved quantity cannot exceed requested quantity")
		}
		item.ApprovedQuantity = qty
		item.UpdatedAt = time.Now()
	}

	now := time.Now()
	r.Status = RequestStatusApproved
	r.SourceWarehouseID = &sourceWarehouseID
	r.ApprovedBy = &approverID
	r.ApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestApprovedEvent(r))

	return nil
}

// Reject moves a pending request to the rejected terminal state
func (r *InventoryRequest) Reject(approverID uuid.UUID, reason string) error {
	if !r.Status.CanTransitionTo(RequestStatusRejected) {
		return shared.ErrInvalidState
	}
	if approverID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Approver ID cannot be empty")
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "A rejection reason is required")
	}

	r.Status = RequestStatusRejected
	r.ApprovedBy = &approverID
	r.RejectReason = reason
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestRejectedEvent(r))

	return nil
}

// StartShipping moves an approved request to shipping and records the
// logistics shipment carrying the goods.
func (r *InventoryRequest) StartShipping(shipmentID uuid.UUID) error {
	if !r.Status.CanTransitionTo(RequestStatusShipping) {
		return shared.ErrInvalidState
	}

	now := time.Now()
	r.Status = RequestStatusShipping
	if shipmentID != uuid.Nil {
		r.ShipmentID = &shipmentID
	}
	r.ShippedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestShippingEvent(r))

	return nil
}

// CompleteDelivery moves a shipping request to the delivered terminal state.
// The caller commits this transition in the same transaction as the stock
// transfer so the ledger and the workflow can never disagree.
func (r *InventoryRequest) CompleteDelivery() error {
	if !r.Status.CanTransitionTo(RequestStatusDelivered) {
		return shared.ErrInvalidState
	}

	now := time.Now()
	r.Status = RequestStatusDelivered
	r.DeliveredAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestDeliveredEvent(r))

	return nil
}

// Cancel moves a non-terminal request to the cancelled terminal state.
// Allowed from pending, approved, and shipping; once delivered the stock has
// moved and the request can no longer be cancelled. Cancelling never
// reverses stock.
func (r *InventoryRequest) Cancel(reason string) error {
	if !r.Status.CanTransitionTo(RequestStatusCancelled) {
		return shared.ErrInvalidState
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "A cancellation reason is required")
	}

	r.Status = RequestStatusCancelled
	r.CancelReason = reason
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestCancelledEvent(r))

	return nil
}

// IsOpen returns true while the request still holds a claim on warehouse
// stock or attention (not in a terminal state).
func (r *InventoryRequest) IsOpen() bool {
	return !r.Status.IsTerminal()
}

// CanBeCancelledBy reports whether the given actor may cancel the request.
// Only the original requester cancels; approvers reject instead.
func (r *InventoryRequest) CanBeCancelledBy(actorID uuid.UUID) bool {
	return r.RequestedBy == actorID
}

// TotalRequestedQuantity sums the requested quantity across all items
func (r *InventoryRequest) TotalRequestedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.RequestedQuantity)
	}
	return total
}

// TotalApprovedQuantity sums the approved quantity across all items
func (r *InventoryRequest) TotalApprovedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.ApprovedQuantity)
	}
	return total
}

// Validation functions

func validateRequestNumber(number string) error {
	if number == "" {
		return shared.NewDomainError("INVALID_REQUEST_NUMBER", "Request number cannot be empty")
	}
	if len(number) > 50 {
		return shared.NewDomainError("INVALID_REQUEST_NUMBER", "Request number cannot exceed 50 characters")
	}
	return nil
}

func validateQuantity(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !quantity.IsInteger() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a whole number")
	}
	return nil
}

// validateApprovedQuantity allows zero: an approver may zero out a line to
// deny one product without rejecting the whole request.
func validateApprovedQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Approved quantity cannot be negative")
	}
	if !quantity.IsInteger() {
		return shared.NewDomainError("INVALID_QUANTITY", "Approved quantity must be a whole number")
	}
	return nil
}
