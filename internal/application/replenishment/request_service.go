package replenishment

import (
	"context"
	"errors"
	"fmt"
	"time"

	appstock "github.com/fanstore/backend/internal/application/stock"
	"github.com/fanstore/backend/internal/domain/replenishment"
	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/fanstore/backend/internal/domain/warehouse"
	"github.com/google/uuid"
)

// maxDeliveryRetries bounds the retry loop around the delivery transaction
const maxDeliveryRetries = 3

// RequestService drives the inventory request workflow. State transitions are
// guarded by the domain state machine; delivery additionally commits the
// stock transfer and the transition in one transaction.
type RequestService struct {
	requestRepo    replenishment.InventoryRequestRepository
	warehouseRepo  warehouse.WarehouseRepository
	scope          appstock.TransactionScope
	catalog        ProductCatalog
	shipments      ShipmentService
	eventPublisher shared.EventPublisher
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo replenishment.InventoryRequestRepository,
	warehouseRepo warehouse.WarehouseRepository,
	scope appstock.TransactionScope,
) *RequestService {
	return &RequestService{
		requestRepo:   requestRepo,
		warehouseRepo: warehouseRepo,
		scope:         scope,
	}
}

// SetProductCatalog wires the catalog collaborator for product validation
func (s *RequestService) SetProductCatalog(catalog ProductCatalog) {
	s.catalog = catalog
}

// SetShipmentService wires the logistics collaborator for shipment creation
func (s *RequestService) SetShipmentService(shipments ShipmentService) {
	s.shipments = shipments
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create raises a new inventory request for a store. The store's bound
// branch warehouse becomes the requesting warehouse.
func (s *RequestService) Create(ctx context.Context, req CreateRequestRequest, actor Actor) (*RequestResponse, error) {
	requesting, err := s.warehouseRepo.FindByStoreID(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("STORE_NOT_BOUND", "Store has no active warehouse bound to it")
		}
		return nil, err
	}
	if !requesting.IsBranch() {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Only branch warehouses raise inventory requests")
	}

	if s.catalog != nil {
		productIDs := make([]uuid.UUID, len(req.Items))
		for i, item := range req.Items {
			productIDs[i] = item.ProductID
		}
		known, err := s.catalog.ProductsExist(ctx, productIDs)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, shared.NewDomainError("UNKNOWN_PRODUCT", "One or more products are not in the catalog")
		}
	}

	items := make([]*replenishment.RequestItem, 0, len(req.Items))
	for _, line := range req.Items {
		variantID := uuid.Nil
		if line.VariantID != nil {
			variantID = *line.VariantID
		}
		item, err := replenishment.NewRequestItem(line.ProductID, variantID, line.Quantity, line.Note)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	number, err := s.requestRepo.NextRequestNumber(ctx, fmt.Sprintf("IR-%d", time.Now().Year()))
	if err != nil {
		return nil, err
	}

	request, err := replenishment.NewInventoryRequest(number, requesting.ID, actor.ID, items, req.Note)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	resp := ToRequestResponse(request)
	return &resp, nil
}

// Approve approves a pending request, freezing the approved quantities and
// the source warehouse. When no source is named, the requesting warehouse's
// parent supplies the goods.
func (s *RequestService) Approve(ctx context.Context, id uuid.UUID, req ApproveRequestRequest, actor Actor) (*RequestResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	sourceID, err := s.resolveSource(ctx, request, req.SourceWarehouseID)
	if err != nil {
		return nil, err
	}

	approvals := make([]replenishment.ItemApproval, len(req.Items))
	for i, item := range req.Items {
		approvals[i] = replenishment.ItemApproval{
			ItemID:           item.ItemID,
			ApprovedQuantity: item.Quantity,
		}
	}

	expectedVersion := request.GetVersion()
	if err := request.Approve(actor.ID, sourceID, approvals); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	resp := ToRequestResponse(request)
	return &resp, nil
}

// Reject rejects a pending request
func (s *RequestService) Reject(ctx context.Context, id uuid.UUID, req RejectRequestRequest, actor Actor) (*RequestResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := request.GetVersion()
	if err := request.Reject(actor.ID, req.Reason); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	resp := ToRequestResponse(request)
	return &resp, nil
}

// StartShipping marks an approved request as shipping. When a logistics
// collaborator is wired, a shipment is registered first and its ID stored on
// the request.
func (s *RequestService) StartShipping(ctx context.Context, id uuid.UUID, actor Actor) (*RequestResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !request.Status.CanTransitionTo(replenishment.RequestStatusShipping) {
		return nil, shared.ErrInvalidState
	}

	shipmentID := uuid.Nil
	if s.shipments != nil && request.SourceWarehouseID != nil {
		lines := make([]ShipmentLine, 0, len(request.Items))
		for _, item := range request.Items {
			if item.ApprovedQuantity.IsPositive() {
				lines = append(lines, ShipmentLine{
					ProductID: item.ProductID,
					VariantID: item.VariantID,
					Quantity:  item.ApprovedQuantity,
				})
			}
		}
		shipmentID, err = s.shipments.CreateShipment(ctx, CreateShipmentRequest{
			ReferenceNumber: request.RequestNumber,
			FromWarehouseID: *request.SourceWarehouseID,
			ToWarehouseID:   request.RequestingWarehouseID,
			Lines:           lines,
		})
		if err != nil {
			return nil, err
		}
	}

	expectedVersion := request.GetVersion()
	if err := request.StartShipping(shipmentID); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	resp := ToRequestResponse(request)
	return &resp, nil
}

// CompleteDelivery confirms arrival of the goods. Every approved item is
// transferred from the source to the requesting warehouse and the request is
// marked delivered, all in one transaction. A failed transfer (for example
// insufficient stock at the source) rolls the whole delivery back.
func (s *RequestService) CompleteDelivery(ctx context.Context, id uuid.UUID, actor Actor) (*RequestResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	var delivered *replenishment.InventoryRequest

	var err error
	for attempt := 0; attempt < maxDeliveryRetries; attempt++ {
		err = s.scope.Execute(ctx, func(repos appstock.TransactionalRepositories) error {
			request, innerErr := repos.RequestRepo().FindByID(ctx, id)
			if innerErr != nil {
				return innerErr
			}
			if !request.Status.CanTransitionTo(replenishment.RequestStatusDelivered) {
				return shared.ErrInvalidState
			}
			if request.SourceWarehouseID == nil {
				return shared.NewDomainError("INVALID_STATE", "Request has no source warehouse")
			}

			for _, item := range request.Items {
				if !item.ApprovedQuantity.IsPositive() {
					continue
				}
				_, _, _, innerErr = appstock.ExecuteTransferLegs(
					ctx, repos,
					*request.SourceWarehouseID, request.RequestingWarehouseID,
					item.ProductID, item.VariantID,
					item.ApprovedQuantity,
					"inventory request "+request.RequestNumber,
					actor.ID,
				)
				if innerErr != nil {
					return innerErr
				}
			}

			expectedVersion := request.GetVersion()
			if innerErr = request.CompleteDelivery(); innerErr != nil {
				return innerErr
			}
			if innerErr = repos.RequestRepo().SaveWithLock(ctx, request, expectedVersion); innerErr != nil {
				return innerErr
			}
			delivered = request
			return nil
		})
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, delivered)

	resp := ToRequestResponse(delivered)
	return &resp, nil
}

// Cancel cancels a request that has not yet been delivered. Only the
// requester may cancel; an unwanted request from someone else is rejected
// instead.
func (s *RequestService) Cancel(ctx context.Context, id uuid.UUID, req CancelRequestRequest, actor Actor) (*RequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !request.CanBeCancelledBy(actor.ID) {
		return nil, shared.ErrForbidden
	}

	expectedVersion := request.GetVersion()
	if err := request.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, request)

	resp := ToRequestResponse(request)
	return &resp, nil
}

// GetByID retrieves a request with its items
func (s *RequestService) GetByID(ctx context.Context, id uuid.UUID) (*RequestResponse, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRequestResponse(request)
	return &resp, nil
}

// List lists requests with filtering and pagination
func (s *RequestService) List(ctx context.Context, filter RequestListFilter) ([]RequestResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.RequestingWarehouseID != nil {
		domainFilter.Filters["requesting_warehouse_id"] = *filter.RequestingWarehouseID
	}
	if filter.SourceWarehouseID != nil {
		domainFilter.Filters["source_warehouse_id"] = *filter.SourceWarehouseID
	}

	requests, err := s.requestRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRequestResponses(requests), total, nil
}

// resolveSource picks and validates the warehouse that will supply the goods
func (s *RequestService) resolveSource(ctx context.Context, request *replenishment.InventoryRequest, explicit *uuid.UUID) (uuid.UUID, error) {
	var sourceID uuid.UUID
	if explicit != nil {
		sourceID = *explicit
	} else {
		requesting, err := s.warehouseRepo.FindByID(ctx, request.RequestingWarehouseID)
		if err != nil {
			return uuid.Nil, err
		}
		if requesting.ParentWarehouseID == nil {
			return uuid.Nil, shared.NewDomainError("NO_SOURCE_WAREHOUSE", "Requesting warehouse has no parent; name a source warehouse explicitly")
		}
		sourceID = *requesting.ParentWarehouseID
	}

	source, err := s.warehouseRepo.FindByID(ctx, sourceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return uuid.Nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source warehouse does not exist")
		}
		return uuid.Nil, err
	}
	if !source.IsActive() {
		return uuid.Nil, shared.NewDomainError("WAREHOUSE_INACTIVE", "Source warehouse is inactive")
	}
	if !source.IsCentral() {
		return uuid.Nil, shared.NewDomainError("INVALID_WAREHOUSE", "Source must be a main or regional warehouse")
	}
	return sourceID, nil
}

func (s *RequestService) publishEvents(ctx context.Context, request *replenishment.InventoryRequest) {
	if s.eventPublisher == nil || request == nil {
		return
	}
	events := request.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	request.ClearDomainEvents()
}
