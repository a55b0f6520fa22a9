package replenishment

import (
	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for InventoryRequest
const AggregateTypeInventoryRequest = "InventoryRequest"

// Event type constants for the replenishment workflow
const (
	EventTypeRequestCreated   = "InventoryRequestCreated"
	EventTypeRequestApproved  = "InventoryRequestApproved"
	EventTypeRequestRejected  = "InventoryRequestRejected"
	EventTypeRequestShipping  = "InventoryRequestShipping"
	EventTypeRequestDelivered = "InventoryRequestDelivered"
	EventTypeRequestCancelled = "InventoryRequestCancelled"
)

// RequestCreatedEvent is published when a new inventory request is submitted
type RequestCreatedEvent struct {
	shared.BaseDomainEvent
	RequestID             uuid.UUID `json:"request_id"`
	RequestNumber         string    `json:"request_number"`
	RequestingWarehouseID uuid.UUID `json:"requesting_warehouse_id"`
	RequestedBy           uuid.UUID `json:"requested_by"`
	ItemCount             int       `json:"item_count"`
}

// NewRequestCreatedEvent creates a new RequestCreatedEvent
func NewRequestCreatedEvent(r *InventoryRequest) *RequestCreatedEvent {
	return &RequestCreatedEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeRequestCreated, AggregateTypeInventoryRequest, r.ID),
		RequestID:             r.ID,
		RequestNumber:         r.RequestNumber,
		RequestingWarehouseID: r.RequestingWarehouseID,
		RequestedBy:           r.RequestedBy,
		ItemCount:             len(r.Items),
	}
}

// RequestApprovedEvent is published when a request is approved
type RequestApprovedEvent struct {
	shared.BaseDomainEvent
	RequestID         uuid.UUID  `json:"request_id"`
	RequestNumber     string     `json:"request_number"`
	SourceWarehouseID *uuid.UUID `json:"source_warehouse_id"`
	ApprovedBy        *uuid.UUID `json:"approved_by"`
}

// NewRequestApprovedEvent creates a new RequestApprovedEvent
func NewRequestApprovedEvent(r *InventoryRequest) *RequestApprovedEvent {
	return &RequestApprovedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeRequestApproved, AggregateTypeInventoryRequest, r.ID),
		RequestID:         r.ID,
		RequestNumber:     r.RequestNumber,
		SourceWarehouseID: r.SourceWarehouseID,
		ApprovedBy:        r.ApprovedBy,
	}
}

// RequestRejectedEvent is published when a request is rejected
type RequestRejectedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	Reason        string    `json:"reason"`
}

// NewRequestRejectedEvent creates a new RequestRejectedEvent
func NewRequestRejectedEvent(r *InventoryRequest) *RequestRejectedEvent {
	return &RequestRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestRejected, AggregateTypeInventoryRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		Reason:          r.RejectReason,
	}
}

// RequestShippingEvent is published when goods leave the source warehouse
type RequestShippingEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID  `json:"request_id"`
	RequestNumber string     `json:"request_number"`
	ShipmentID    *uuid.UUID `json:"shipment_id,omitempty"`
}

// NewRequestShippingEvent creates a new RequestShippingEvent
func NewRequestShippingEvent(r *InventoryRequest) *RequestShippingEvent {
	return &RequestShippingEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestShipping, AggregateTypeInventoryRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		ShipmentID:      r.ShipmentID,
	}
}

// RequestDeliveredEvent is published when goods arrive and stock has moved
type RequestDeliveredEvent struct {
	shared.BaseDomainEvent
	RequestID             uuid.UUID  `json:"request_id"`
	RequestNumber         string     `json:"request_number"`
	RequestingWarehouseID uuid.UUID  `json:"requesting_warehouse_id"`
	SourceWarehouseID     *uuid.UUID `json:"source_warehouse_id"`
}

// NewRequestDeliveredEvent creates a new RequestDeliveredEvent
func NewRequestDeliveredEvent(r *InventoryRequest) *RequestDeliveredEvent {
	return &RequestDeliveredEvent{
		BaseDomainEvent:       shared.NewBaseDomainEvent(EventTypeRequestDelivered, AggregateTypeInventoryRequest, r.ID),
		RequestID:             r.ID,
		RequestNumber:         r.RequestNumber,
		RequestingWarehouseID: r.RequestingWarehouseID,
		SourceWarehouseID:     r.SourceWarehouseID,
	}
}

// RequestCancelledEvent is published when a request is cancelled
type RequestCancelledEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	Reason        string    `json:"reason"`
}

// NewRequestCancelledEvent creates a new RequestCancelledEvent
func NewRequestCancelledEvent(r *InventoryRequest) *RequestCancelledEvent {
	return &RequestCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestCancelled, AggregateTypeInventoryRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		Reason:          r.CancelReason,
	}
}
