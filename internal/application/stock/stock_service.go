package stock

import (
	"context"
	"errors"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/fanstore/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxApplyRetries bounds the optimistic-lock retry loop. Each retry reloads
// the stock record, so contention on one ledger key resolves in a few rounds.
const maxApplyRetries = 3

// StockService handles ledger reads and single-warehouse movements. All
// writes go through applyMovement, which serializes concurrent movements on
// the same ledger key with an optimistic version check and retry.
type StockService struct {
	scope          TransactionScope
	recordRepo     stock.StockRecordRepository
	movementRepo   stock.StockMovementRepository
	eventPublisher shared.EventPublisher
}

// NewStockService creates a new StockService
func NewStockService(
	scope TransactionScope,
	recordRepo stock.StockRecordRepository,
	movementRepo stock.StockMovementRepository,
) *StockService {
	return &StockService{
		scope:        scope,
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetQuantity returns the stock position for a warehouse-product key. A key
// that has never moved reports zero instead of not-found.
func (s *StockService) GetQuantity(ctx context.Context, warehouseID, productID uuid.UUID, variantID *uuid.UUID) (*StockRecordResponse, error) {
	key := stock.LedgerKey{
		WarehouseID: warehouseID,
		ProductID:   productID,
		VariantID:   variantOrNil(variantID),
	}

	record, err := s.recordRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			resp := StockRecordResponse{
				WarehouseID:    warehouseID,
				ProductID:      productID,
				VariantID:      variantID,
				QuantityOnHand: decimal.Zero,
			}
			return &resp, nil
		}
		return nil, err
	}

	resp := ToStockRecordResponse(record)
	return &resp, nil
}

// ListByWarehouse lists the stock positions held in a warehouse
func (s *StockService) ListByWarehouse(ctx context.Context, warehouseID uuid.UUID, page, pageSize int) ([]StockRecordResponse, error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	records, err := s.recordRepo.FindByWarehouse(ctx, warehouseID, filter)
	if err != nil {
		return nil, err
	}
	return ToStockRecordResponses(records), nil
}

// QuantitiesByProduct returns the quantity on hand per product in a warehouse
// for a batch of product IDs. Products without a record report zero.
func (s *StockService) QuantitiesByProduct(ctx context.Context, warehouseID uuid.UUID, productIDs []uuid.UUID) ([]ProductQuantityResponse, error) {
	quantities, err := s.recordRepo.QuantitiesByProduct(ctx, warehouseID, productIDs)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductQuantityResponse, 0, len(productIDs))
	for _, productID := range productIDs {
		qty, ok := quantities[productID]
		if !ok {
			qty = decimal.Zero
		}
		responses = append(responses, ProductQuantityResponse{
			ProductID:      productID,
			QuantityOnHand: qty,
		})
	}
	return responses, nil
}

// ListMovements lists ledger movements, newest first
func (s *StockService) ListMovements(ctx context.Context, filter MovementListFilter) ([]MovementResponse, error) {
	if filter.WarehouseID == nil {
		return nil, shared.NewDomainError("INVALID_FILTER", "Warehouse ID is required")
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}

	var movements []stock.StockMovement
	var err error
	if filter.ProductID != nil {
		key := stock.LedgerKey{
			WarehouseID: *filter.WarehouseID,
			ProductID:   *filter.ProductID,
			VariantID:   variantOrNil(filter.VariantID),
		}
		movements, err = s.movementRepo.FindByKey(ctx, key, domainFilter)
	} else {
		movements, err = s.movementRepo.FindByWarehouse(ctx, *filter.WarehouseID, domainFilter)
	}
	if err != nil {
		return nil, err
	}

	return ToMovementResponses(movements), nil
}

// ApplyMovement records an import, export, or adjustment against one ledger
// key. The stock record update and the movement row commit in one
// transaction; concurrent movements on the same key are serialized by the
// version check.
func (s *StockService) ApplyMovement(ctx context.Context, req ApplyMovementRequest, actorID uuid.UUID) (*MovementResponse, error) {
	movementType := stock.MovementType(req.Type)
	if !movementType.IsValid() || movementType == stock.MovementTypeTransfer {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Type must be import, export, or adjustment")
	}

	delta, err := signedDelta(movementType, req.Quantity)
	if err != nil {
		return nil, err
	}

	key := stock.LedgerKey{
		WarehouseID: req.WarehouseID,
		ProductID:   req.ProductID,
		VariantID:   variantOrNil(req.VariantID),
	}

	var movement *stock.StockMovement
	var record *stock.StockRecord

	err = s.withRetry(ctx, func(repos TransactionalRepositories) error {
		var innerErr error
		record, innerErr = repos.StockRecordRepo().GetOrCreate(ctx, key)
		if innerErr != nil {
			return innerErr
		}

		balanceBefore := record.QuantityOnHand
		expectedVersion := record.GetVersion()

		if innerErr = record.Apply(delta); innerErr != nil {
			return innerErr
		}

		movement, innerErr = stock.NewStockMovement(key, movementType, delta, balanceBefore, record.QuantityOnHand)
		if innerErr != nil {
			return innerErr
		}
		movement.WithNote(req.Note).WithCreatedBy(actorID)
		if req.OrderID != nil {
			movement.WithOrderID(*req.OrderID)
		}

		if innerErr = repos.StockRecordRepo().SaveWithLock(ctx, record, expectedVersion); innerErr != nil {
			return innerErr
		}
		return repos.MovementRepo().Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishMovementEvents(ctx, record, movement)

	resp := ToMovementResponse(movement)
	return &resp, nil
}

// withRetry executes the transactional function, retrying the whole
// transaction on an optimistic lock conflict. Each attempt runs against a
// fresh transaction and reloads the record.
func (s *StockService) withRetry(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	var err error
	for attempt := 0; attempt < maxApplyRetries; attempt++ {
		err = s.scope.Execute(ctx, fn)
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}

func (s *StockService) publishMovementEvents(ctx context.Context, record *stock.StockRecord, movement *stock.StockMovement) {
	if s.eventPublisher == nil {
		return
	}
	events := []shared.DomainEvent{stock.NewStockMovementAppliedEvent(record, movement)}
	if record.QuantityOnHand.IsZero() {
		events = append(events, stock.NewStockDepletedEvent(record))
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// signedDelta converts an API quantity to the signed ledger delta. Import and
// export take a positive magnitude; adjustments pass their sign through.
func signedDelta(movementType stock.MovementType, quantity decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsZero() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	if !quantity.IsInteger() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a whole number")
	}

	switch movementType {
	case stock.MovementTypeImport:
		if quantity.IsNegative() {
			return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Import quantity must be positive")
		}
		return quantity, nil
	case stock.MovementTypeExport:
		if quantity.IsNegative() {
			return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Export quantity must be positive")
		}
		return quantity.Neg(), nil
	default:
		return quantity, nil
	}
}
