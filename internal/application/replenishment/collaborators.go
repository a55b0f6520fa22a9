package replenishment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCatalog validates product references against the catalog service.
// Implemented by an HTTP client in the infrastructure layer; nil disables the
// check for deployments that trust upstream IDs.
type ProductCatalog interface {
	// ProductsExist reports whether every given product ID is known to the catalog
	ProductsExist(ctx context.Context, productIDs []uuid.UUID) (bool, error)
}

// ShipmentLine is one product line handed to the logistics service
type ShipmentLine struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	Quantity  decimal.Decimal
}

// CreateShipmentRequest asks the logistics service to pick up goods for a
// replenishment request.
type CreateShipmentRequest struct {
	ReferenceNumber string
	FromWarehouseID uuid.UUID
	ToWarehouseID   uuid.UUID
	Lines           []ShipmentLine
}

// ShipmentService creates shipments with the logistics collaborator.
// Implemented by an HTTP client in the infrastructure layer; nil lets
// requests ship without a tracked shipment.
type ShipmentService interface {
	// CreateShipment registers a shipment and returns its ID
	CreateShipment(ctx context.Context, req CreateShipmentRequest) (uuid.UUID, error)
}
