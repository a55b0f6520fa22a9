package persistence

import (
	"context"

	appstock "github.com/fanstore/backend/internal/application/stock"
	"github.com/fanstore/backend/internal/domain/replenishment"
	"github.com/fanstore/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope implements the ledger transaction scope on top of
// GORM transactions. Every Execute call opens one database transaction and
// hands the callback repositories bound to it.
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the function within a database transaction. An error from the
// function rolls the transaction back.
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories hands out repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) StockRecordRepo() stock.StockRecordRepository {
	return NewGormStockRecordRepository(r.tx)
}

func (r *gormTransactionalRepositories) MovementRepo() stock.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) RequestRepo() replenishment.InventoryRequestRepository {
	return NewGormInventoryRequestRepository(r.tx)
}

// Ensure the implementations satisfy the application interfaces
var _ appstock.TransactionScope = (*GormLedgerTransactionScope)(nil)
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
