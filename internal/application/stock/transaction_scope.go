package stock

import (
	"context"

	"github.com/fanstore/backend/internal/domain/replenishment"
	"github.com/fanstore/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the ledger repositories.
// Everything executed inside one scope commits or rolls back atomically; this
// is what keeps a stock record, its movement rows, and any workflow state
// change consistent with each other.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories that take part
// in ledger transactions. All repositories returned share the same underlying
// database transaction.
//
// RequestRepo is included because delivering an inventory request must commit
// the workflow transition and the stock transfer as one unit.
type TransactionalRepositories interface {
	// StockRecordRepo returns the stock record repository scoped to the current transaction
	StockRecordRepo() stock.StockRecordRepository
	// MovementRepo returns the movement ledger repository scoped to the current transaction
	MovementRepo() stock.StockMovementRepository
	// RequestRepo returns the inventory request repository scoped to the current transaction
	RequestRepo() replenishment.InventoryRequestRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests built on in-memory repositories.
type NoOpTransactionScope struct {
	recordRepo   stock.StockRecordRepository
	movementRepo stock.StockMovementRepository
	requestRepo  replenishment.InventoryRequestRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	recordRepo stock.StockRecordRepository,
	movementRepo stock.StockMovementRepository,
	requestRepo replenishment.InventoryRequestRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
		requestRepo:  requestRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRecordRepo returns the stock record repository.
func (s *NoOpTransactionScope) StockRecordRepo() stock.StockRecordRepository {
	return s.recordRepo
}

// MovementRepo returns the movement ledger repository.
func (s *NoOpTransactionScope) MovementRepo() stock.StockMovementRepository {
	return s.movementRepo
}

// RequestRepo returns the inventory request repository.
func (s *NoOpTransactionScope) RequestRepo() replenishment.InventoryRequestRepository {
	return s.requestRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
