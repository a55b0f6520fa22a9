package store

import (
	"context"
	"errors"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/fanstore/backend/internal/domain/stock"
	"github.com/fanstore/backend/internal/domain/store"
	"github.com/fanstore/backend/internal/domain/warehouse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreDirectory validates store references against the store directory
// service. Implemented by an HTTP client in the infrastructure layer; nil
// disables the check.
type StoreDirectory interface {
	// StoreExists reports whether the store is known to the directory
	StoreExists(ctx context.Context, storeID uuid.UUID) (bool, error)
}

// ProductNamer resolves product display names for list enrichment.
// Implemented by the catalog client; nil leaves names blank.
type ProductNamer interface {
	// ProductNames returns display names for the given product IDs
	ProductNames(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

// StoreInventoryService manages per-store product availability. Availability
// is independent of warehouse stock: switching a product on or off never
// touches the ledger, and stock arriving never flips the switch.
type StoreInventoryService struct {
	inventoryRepo store.StoreInventoryRepository
	warehouseRepo warehouse.WarehouseRepository
	recordRepo    stock.StockRecordRepository
	directory     StoreDirectory
	catalog       ProductNamer
}

// NewStoreInventoryService creates a new StoreInventoryService
func NewStoreInventoryService(
	inventoryRepo store.StoreInventoryRepository,
	warehouseRepo warehouse.WarehouseRepository,
	recordRepo stock.StockRecordRepository,
) *StoreInventoryService {
	return &StoreInventoryService{
		inventoryRepo: inventoryRepo,
		warehouseRepo: warehouseRepo,
		recordRepo:    recordRepo,
	}
}

// SetStoreDirectory wires the store directory collaborator
func (s *StoreInventoryService) SetStoreDirectory(directory StoreDirectory) {
	s.directory = directory
}

// SetProductNamer wires the catalog collaborator for name enrichment
func (s *StoreInventoryService) SetProductNamer(catalog ProductNamer) {
	s.catalog = catalog
}

// SetAvailability switches a product's purchasability in a store. The
// operation is idempotent: setting the current value reports Changed=false
// and writes nothing.
func (s *StoreInventoryService) SetAvailability(ctx context.Context, storeID uuid.UUID, req SetAvailabilityRequest) (*AvailabilityResponse, error) {
	if err := s.checkStore(ctx, storeID); err != nil {
		return nil, err
	}

	record, err := s.inventoryRepo.GetOrCreate(ctx, storeID, req.ProductID)
	if err != nil {
		return nil, err
	}

	changed := record.SetAvailability(req.IsAvailable)
	if changed {
		if err := s.inventoryRepo.Save(ctx, record); err != nil {
			return nil, err
		}
	}

	resp := ToAvailabilityResponse(record, changed)
	return &resp, nil
}

// GetAvailability returns the availability of one product in a store. A
// product never configured for the store reports unavailable.
func (s *StoreInventoryService) GetAvailability(ctx context.Context, storeID, productID uuid.UUID) (*AvailabilityResponse, error) {
	record, err := s.inventoryRepo.FindByStoreAndProduct(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &AvailabilityResponse{
				StoreID:     storeID,
				ProductID:   productID,
				IsAvailable: false,
			}, nil
		}
		return nil, err
	}
	resp := ToAvailabilityResponse(record, false)
	return &resp, nil
}

// ListProducts lists a store's configured products with their availability
// and, when the store has a bound branch warehouse, the quantity on hand
// there. A missing warehouse binding reports zero quantities rather than an
// error so storefronts keep rendering.
func (s *StoreInventoryService) ListProducts(ctx context.Context, storeID uuid.UUID, filter StoreProductListFilter) ([]StoreProductResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.IsAvailable != nil {
		domainFilter.Filters["is_available"] = *filter.IsAvailable
	}

	records, err := s.inventoryRepo.FindByStore(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.inventoryRepo.Count(ctx, storeID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	productIDs := make([]uuid.UUID, len(records))
	for i := range records {
		productIDs[i] = records[i].ProductID
	}

	quantities := make(map[uuid.UUID]decimal.Decimal)
	if branch, err := s.warehouseRepo.FindByStoreID(ctx, storeID); err == nil {
		quantities, err = s.recordRepo.QuantitiesByProduct(ctx, branch.ID, productIDs)
		if err != nil {
			return nil, 0, err
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, 0, err
	}

	names := make(map[uuid.UUID]string)
	if s.catalog != nil && len(productIDs) > 0 {
		if resolved, err := s.catalog.ProductNames(ctx, productIDs); err == nil {
			names = resolved
		}
	}

	responses := make([]StoreProductResponse, len(records))
	for i := range records {
		qty, ok := quantities[records[i].ProductID]
		if !ok {
			qty = decimal.Zero
		}
		responses[i] = StoreProductResponse{
			ProductID:      records[i].ProductID,
			ProductName:    names[records[i].ProductID],
			IsAvailable:    records[i].IsAvailable,
			QuantityOnHand: qty,
			UpdatedAt:      records[i].UpdatedAt,
		}
	}
	return responses, total, nil
}

func (s *StoreInventoryService) checkStore(ctx context.Context, storeID uuid.UUID) error {
	if storeID == uuid.Nil {
		return shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	if s.directory == nil {
		return nil
	}
	known, err := s.directory.StoreExists(ctx, storeID)
	if err != nil {
		return err
	}
	if !known {
		return shared.NewDomainError("UNKNOWN_STORE", "Store is not in the directory")
	}
	return nil
}
