package replenishment

// RequestStatus represents the lifecycle state of an inventory request
type RequestStatus string

const (
	// RequestStatusPending is the initial state after submission
	RequestStatusPending RequestStatus = "pending"
	// RequestStatusApproved means an approver accepted the request and fixed
	// the approved quantities and the source warehouse.
	RequestStatusApproved RequestStatus = "approved"
	// RequestStatusRejected is a terminal state; no stock ever moves
	RequestStatusRejected RequestStatus = "rejected"
	// RequestStatusShipping means the goods left the source warehouse
	RequestStatusShipping RequestStatus = "shipping"
	// RequestStatusDelivered is the terminal success state; stock has been
	// transferred to the destination warehouse.
	RequestStatusDelivered RequestStatus = "delivered"
	// RequestStatusCancelled is a terminal state reachable from any
	// non-terminal state before delivery. Cancelling never reverses stock
	// because stock only moves on the transition into delivered.
	RequestStatusCancelled RequestStatus = "cancelled"
)

// String returns the string representation of RequestStatus
func (s RequestStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is valid
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected,
		RequestStatusShipping, RequestStatusDelivered, RequestStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusRejected, RequestStatusDelivered, RequestStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine allows moving from this
// status to the target status. Stock moves exactly once, on the transition
// into delivered.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	switch s {
	case RequestStatusPending:
		return target == RequestStatusApproved ||
			target == RequestStatusRejected ||
			target == RequestStatusCancelled
	case RequestStatusApproved:
		return target == RequestStatusShipping ||
			target == RequestStatusCancelled
	case RequestStatusShipping:
		return target == RequestStatusDelivered ||
			target == RequestStatusCancelled
	}
	return false
}
