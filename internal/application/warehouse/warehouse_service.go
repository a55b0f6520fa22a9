package warehouse

import (
	"context"
	"errors"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/fanstore/backend/internal/domain/warehouse"
	"github.com/google/uuid"
)

// maxHierarchyDepth caps the parent-chain walk during cycle detection. The
// directory only has three levels, so anything deeper is corrupt data.
const maxHierarchyDepth = 10

// StockChecker reports whether a warehouse still holds stock. Implemented by
// the stock record repository; split out so the directory does not depend on
// the whole ledger.
type StockChecker interface {
	CountWithStock(ctx context.Context, warehouseID uuid.UUID) (int64, error)
}

// OpenRequestChecker reports how many non-terminal inventory requests
// reference a warehouse as requester or source.
type OpenRequestChecker interface {
	CountOpenByWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error)
}

// WarehouseService handles warehouse directory operations
type WarehouseService struct {
	warehouseRepo      warehouse.WarehouseRepository
	stockChecker       StockChecker
	openRequestChecker OpenRequestChecker
	eventPublisher     shared.EventPublisher
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(
	warehouseRepo warehouse.WarehouseRepository,
	stockChecker StockChecker,
	openRequestChecker OpenRequestChecker,
) *WarehouseService {
	return &WarehouseService{
		warehouseRepo:      warehouseRepo,
		stockChecker:       stockChecker,
		openRequestChecker: openRequestChecker,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *WarehouseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new warehouse
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	exists, err := s.warehouseRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A warehouse with this code already exists")
	}

	warehouseType := warehouse.WarehouseType(req.Type)
	if req.ParentWarehouseID != nil {
		if err := s.checkParent(ctx, warehouseType, *req.ParentWarehouseID); err != nil {
			return nil, err
		}
	}

	w, err := warehouse.NewWarehouse(req.Code, req.Name, warehouseType, req.ParentWarehouseID)
	if err != nil {
		return nil, err
	}

	if req.StoreID != nil {
		if err := s.checkStoreBinding(ctx, *req.StoreID, uuid.Nil); err != nil {
			return nil, err
		}
		if err := w.BindStore(*req.StoreID); err != nil {
			return nil, err
		}
	}
	if err := w.SetAddress(req.Address, req.City, req.Province, req.PostalCode); err != nil {
		return nil, err
	}
	if err := w.SetContact(req.ContactName, req.Phone); err != nil {
		return nil, err
	}
	if req.Notes != "" {
		w.SetNotes(req.Notes)
	}

	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, w)

	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// Update updates a warehouse's mutable fields
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := w.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.ParentWarehouseID != nil && (w.ParentWarehouseID == nil || *w.ParentWarehouseID != *req.ParentWarehouseID) {
		if err := s.checkParent(ctx, w.Type, *req.ParentWarehouseID); err != nil {
			return nil, err
		}
		if err := s.checkNoCycle(ctx, w.ID, *req.ParentWarehouseID); err != nil {
			return nil, err
		}
		if err := w.SetParent(req.ParentWarehouseID); err != nil {
			return nil, err
		}
	}
	if req.Address != nil || req.City != nil || req.Province != nil || req.PostalCode != nil {
		address, city := w.Address, w.City
		province, postalCode := w.Province, w.PostalCode
		if req.Address != nil {
			address = *req.Address
		}
		if req.City != nil {
			city = *req.City
		}
		if req.Province != nil {
			province = *req.Province
		}
		if req.PostalCode != nil {
			postalCode = *req.PostalCode
		}
		if err := w.SetAddress(address, city, province, postalCode); err != nil {
			return nil, err
		}
	}
	if req.ContactName != nil || req.Phone != nil {
		contactName, phone := w.ContactName, w.Phone
		if req.ContactName != nil {
			contactName = *req.ContactName
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := w.SetContact(contactName, phone); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		w.SetNotes(*req.Notes)
	}

	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, w)

	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// BindStore binds a branch warehouse to a retail store. A store gets at most
// one active warehouse.
func (s *WarehouseService) BindStore(ctx context.Context, id uuid.UUID, req BindStoreRequest) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkStoreBinding(ctx, req.StoreID, id); err != nil {
		return nil, err
	}
	if err := w.BindStore(req.StoreID); err != nil {
		return nil, err
	}

	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}

	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// UnbindStore removes the store binding from a warehouse
func (s *WarehouseService) UnbindStore(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	w.UnbindStore()

	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}

	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// Activate reactivates an inactive warehouse
func (s *WarehouseService) Activate(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := w.Activate(); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, w)

	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// Deactivate deactivates a warehouse. Refused while the warehouse still holds
// stock or is referenced by an open inventory request.
func (s *WarehouseService) Deactivate(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	withStock, err := s.stockChecker.CountWithStock(ctx, id)
	if err != nil {
		return nil, err
	}
	if withStock > 0 {
		return nil, shared.NewDomainError("WAREHOUSE_NOT_EMPTY", "Warehouse still holds stock; transfer it out first")
	}

	openRequests, err := s.openRequestChecker.CountOpenByWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	if openRequests > 0 {
		return nil, shared.NewDomainError("WAREHOUSE_HAS_OPEN_REQUESTS", "Warehouse is referenced by open inventory requests")
	}

	if err := w.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, w); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, w)

	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// Delete hard-deletes a warehouse. Only inactive, childless warehouses with a
// clean ledger can be removed.
func (s *WarehouseService) Delete(ctx context.Context, id uuid.UUID) error {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if w.IsActive() {
		return shared.NewDomainError("WAREHOUSE_ACTIVE", "Deactivate the warehouse before deleting it")
	}

	children, err := s.warehouseRepo.FindChildren(ctx, id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return shared.NewDomainError("WAREHOUSE_HAS_CHILDREN", "Reassign child warehouses before deleting")
	}

	withStock, err := s.stockChecker.CountWithStock(ctx, id)
	if err != nil {
		return err
	}
	if withStock > 0 {
		return shared.NewDomainError("WAREHOUSE_NOT_EMPTY", "Warehouse still holds stock")
	}

	if err := s.warehouseRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, warehouse.NewWarehouseDeletedEvent(w))
	}
	return nil
}

// GetByID retrieves a warehouse by ID
func (s *WarehouseService) GetByID(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// GetByCode retrieves a warehouse by code
func (s *WarehouseService) GetByCode(ctx context.Context, code string) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// List lists warehouses with filtering and pagination
func (s *WarehouseService) List(ctx context.Context, filter WarehouseListFilter) ([]WarehouseResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	warehouses, err := s.warehouseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.warehouseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToWarehouseResponses(warehouses), total, nil
}

// ListChildren lists the direct children of a warehouse
func (s *WarehouseService) ListChildren(ctx context.Context, parentID uuid.UUID) ([]WarehouseResponse, error) {
	children, err := s.warehouseRepo.FindChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return ToWarehouseResponses(children), nil
}

// ResolveStoreWarehouse returns the active branch warehouse serving a store
func (s *WarehouseService) ResolveStoreWarehouse(ctx context.Context, storeID uuid.UUID) (*WarehouseResponse, error) {
	w, err := s.warehouseRepo.FindByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	resp := ToWarehouseResponse(w)
	return &resp, nil
}

// checkParent verifies that the proposed parent exists, is active, and sits
// at a level that may carry children of the given type.
func (s *WarehouseService) checkParent(ctx context.Context, childType warehouse.WarehouseType, parentID uuid.UUID) error {
	parent, err := s.warehouseRepo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_PARENT", "Parent warehouse does not exist")
		}
		return err
	}
	if !parent.IsActive() {
		return shared.NewDomainError("INVALID_PARENT", "Parent warehouse is inactive")
	}
	if !childType.CanHaveParentOfType(parent.Type) {
		return shared.NewDomainError("INVALID_PARENT", "A "+childType.String()+" warehouse cannot be a child of a "+parent.Type.String()+" warehouse")
	}
	return nil
}

// checkNoCycle walks the proposed parent's ancestor chain and refuses the
// re-parenting if the warehouse itself appears in it.
func (s *WarehouseService) checkNoCycle(ctx context.Context, warehouseID, parentID uuid.UUID) error {
	current := parentID
	for depth := 0; depth < maxHierarchyDepth; depth++ {
		if current == warehouseID {
			return shared.NewDomainError("INVALID_PARENT", "Re-parenting would create a cycle in the hierarchy")
		}
		ancestor, err := s.warehouseRepo.FindByID(ctx, current)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		if ancestor.ParentWarehouseID == nil {
			return nil
		}
		current = *ancestor.ParentWarehouseID
	}
	return shared.NewDomainError("INVALID_PARENT", "Warehouse hierarchy is too deep")
}

func (s *WarehouseService) checkStoreBinding(ctx context.Context, storeID, excludeID uuid.UUID) error {
	bound, err := s.warehouseRepo.ExistsActiveByStoreID(ctx, storeID, excludeID)
	if err != nil {
		return err
	}
	if bound {
		return shared.NewDomainError("STORE_ALREADY_BOUND", "The store is already served by another warehouse")
	}
	return nil
}

func (s *WarehouseService) publishEvents(ctx context.Context, w *warehouse.Warehouse) {
	if s.eventPublisher == nil {
		return
	}
	events := w.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	w.ClearDomainEvents()
}
