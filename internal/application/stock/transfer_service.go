package stock

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/fanstore/backend/internal/domain/stock"
	"github.com/fanstore/backend/internal/domain/warehouse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferService moves stock between two warehouses. Both ledger legs and
// both stock record updates commit in one transaction; a failure on either
// side rolls back the whole transfer.
type TransferService struct {
	scope            TransactionScope
	warehouseRepo    warehouse.WarehouseRepository
	idempotencyStore shared.IdempotencyStore
	idempotencyTTL   time.Duration
	eventPublisher   shared.EventPublisher
}

// NewTransferService creates a new TransferService
func NewTransferService(
	scope TransactionScope,
	warehouseRepo warehouse.WarehouseRepository,
	idempotencyStore shared.IdempotencyStore,
) *TransferService {
	return &TransferService{
		scope:            scope,
		warehouseRepo:    warehouseRepo,
		idempotencyStore: idempotencyStore,
		idempotencyTTL:   shared.DefaultIdempotencyConfig().TTL,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Transfer moves a quantity of one product from a source warehouse to a
// destination warehouse. When the request carries an idempotency key, a
// repeated call with the same key is rejected as a duplicate instead of
// moving the stock twice.
func (s *TransferService) Transfer(ctx context.Context, req TransferRequest, actorID uuid.UUID) (*TransferResponse, error) {
	if err := s.validateTransfer(ctx, req); err != nil {
		return nil, err
	}

	// Reserve the key before executing so concurrent calls with the same
	// key cannot both move stock. A failed transfer gives the reservation
	// back: the caller may retry the same key after fixing the cause.
	reservedKey := ""
	if req.IdempotencyKey != "" && s.idempotencyStore != nil {
		reservedKey = "transfer:" + req.IdempotencyKey
		first, err := s.idempotencyStore.MarkProcessed(ctx, reservedKey, s.idempotencyTTL)
		if err != nil {
			return nil, err
		}
		if !first {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "A transfer with this idempotency key was already processed")
		}
	}

	outKey := stock.LedgerKey{
		WarehouseID: req.FromWarehouseID,
		ProductID:   req.ProductID,
		VariantID:   variantOrNil(req.VariantID),
	}
	inKey := outKey
	inKey.WarehouseID = req.ToWarehouseID

	out, in, sourceRecord, err := s.executeTransfer(ctx, outKey, inKey, req, actorID)
	if err != nil {
		if reservedKey != "" {
			_ = s.idempotencyStore.Remove(ctx, reservedKey)
		}
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, stock.NewStockTransferredEvent(sourceRecord, out, in))
	}

	return &TransferResponse{
		OutMovement: ToMovementResponse(out),
		InMovement:  ToMovementResponse(in),
	}, nil
}

func (s *TransferService) validateTransfer(ctx context.Context, req TransferRequest) error {
	if req.FromWarehouseID == req.ToWarehouseID {
		return shared.NewDomainError("INVALID_TRANSFER", "Source and destination warehouses must differ")
	}
	if !req.Quantity.IsPositive() || !req.Quantity.IsInteger() {
		return shared.NewDomainError("INVALID_QUANTITY", "Transfer quantity must be a positive whole number")
	}

	warehouses, err := s.warehouseRepo.FindByIDs(ctx, []uuid.UUID{req.FromWarehouseID, req.ToWarehouseID})
	if err != nil {
		return err
	}
	found := make(map[uuid.UUID]*warehouse.Warehouse, len(warehouses))
	for i := range warehouses {
		found[warehouses[i].ID] = &warehouses[i]
	}
	for _, id := range []uuid.UUID{req.FromWarehouseID, req.ToWarehouseID} {
		w, ok := found[id]
		if !ok {
			return shared.ErrNotFound
		}
		if !w.IsActive() {
			return shared.NewDomainError("WAREHOUSE_INACTIVE", "Warehouse "+w.Code+" is inactive")
		}
	}
	return nil
}

// executeTransfer runs both legs inside one transaction, retrying on version
// conflicts.
func (s *TransferService) executeTransfer(ctx context.Context, outKey, inKey stock.LedgerKey, req TransferRequest, actorID uuid.UUID) (*stock.StockMovement, *stock.StockMovement, *stock.StockRecord, error) {
	var out, in *stock.StockMovement
	var sourceRecord *stock.StockRecord

	var err error
	for attempt := 0; attempt < maxApplyRetries; attempt++ {
		err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			var innerErr error
			out, in, sourceRecord, innerErr = ExecuteTransferLegs(
				ctx, repos,
				req.FromWarehouseID, req.ToWarehouseID,
				req.ProductID, outKey.VariantID,
				req.Quantity, req.Note, actorID,
			)
			return innerErr
		})
		if err == nil || !errors.Is(err, shared.ErrConcurrencyConflict) {
			break
		}
	}
	if err != nil {
		return nil, nil, nil, err
	}
	return out, in, sourceRecord, nil
}

// lessKey imposes a total order on ledger keys for deadlock-free locking
func lessKey(a, b stock.LedgerKey) bool {
	if c := bytes.Compare(a.WarehouseID[:], b.WarehouseID[:]); c != 0 {
		return c < 0
	}
	if c := bytes.Compare(a.ProductID[:], b.ProductID[:]); c != 0 {
		return c < 0
	}
	return bytes.Compare(a.VariantID[:], b.VariantID[:]) < 0
}

// ExecuteTransferLegs performs a transfer expressed in domain types inside an
// already-open transaction, returning both ledger legs and the source record.
// Records are loaded in a fixed key order so two opposing transfers cannot
// deadlock each other. The replenishment workflow reuses this to move stock
// and flip the request state in one commit.
func ExecuteTransferLegs(ctx context.Context, repos TransactionalRepositories, fromWarehouseID, toWarehouseID, productID, variantID uuid.UUID, quantity decimal.Decimal, note string, actorID uuid.UUID) (*stock.StockMovement, *stock.StockMovement, *stock.StockRecord, error) {
	outKey := stock.LedgerKey{WarehouseID: fromWarehouseID, ProductID: productID, VariantID: variantID}
	inKey := stock.LedgerKey{WarehouseID: toWarehouseID, ProductID: productID, VariantID: variantID}

	firstKey, secondKey := outKey, inKey
	if lessKey(inKey, outKey) {
		firstKey, secondKey = inKey, outKey
	}

	first, err := repos.StockRecordRepo().GetOrCreate(ctx, firstKey)
	if err != nil {
		return nil, nil, nil, err
	}
	second, err := repos.StockRecordRepo().GetOrCreate(ctx, secondKey)
	if err != nil {
		return nil, nil, nil, err
	}

	source, dest := first, second
	if firstKey != outKey {
		source, dest = second, first
	}

	if !source.CanFulfill(quantity) {
		return nil, nil, nil, shared.ErrInsufficientStock
	}

	sourceVersion := source.GetVersion()
	destVersion := dest.GetVersion()

	sourceBefore := source.QuantityOnHand
	if err = source.Apply(quantity.Neg()); err != nil {
		return nil, nil, nil, err
	}
	destBefore := dest.QuantityOnHand
	if err = dest.Apply(quantity); err != nil {
		return nil, nil, nil, err
	}

	now := time.Now()
	out, err := stock.NewTransferMovement(outKey, quantity.Neg(), sourceBefore, source.QuantityOnHand, fromWarehouseID, toWarehouseID)
	if err != nil {
		return nil, nil, nil, err
	}
	in, err := stock.NewTransferMovement(inKey, quantity, destBefore, dest.QuantityOnHand, fromWarehouseID, toWarehouseID)
	if err != nil {
		return nil, nil, nil, err
	}
	out.WithNote(note).WithCreatedBy(actorID).WithCreatedAt(now)
	in.WithNote(note).WithCreatedBy(actorID).WithCreatedAt(now)

	if err = repos.StockRecordRepo().SaveWithLock(ctx, source, sourceVersion); err != nil {
		return nil, nil, nil, err
	}
	if err = repos.StockRecordRepo().SaveWithLock(ctx, dest, destVersion); err != nil {
		return nil, nil, nil, err
	}
	if err = repos.MovementRepo().CreateBatch(ctx, []*stock.StockMovement{out, in}); err != nil {
		return nil, nil, nil, err
	}
	return out, in, source, nil
}
