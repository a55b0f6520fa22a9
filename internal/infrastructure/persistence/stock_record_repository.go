package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/fanstore/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRecordRepository implements StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// FindByID finds a stock record by its ID
func (r *GormStockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockRecord, error) {
	var record stock.StockRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByKey finds the stock record for a ledger key
func (r *GormStockRecordRepository) FindByKey(ctx context.Context, key stock.LedgerKey) (*stock.StockRecord, error) {
	var record stock.StockRecord
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND product_id = ? AND variant_id = ?",
			key.WarehouseID, key.ProductID, key.VariantID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetOrCreate returns the stock record for a key, inserting a zero-quantity
// row if none exists. The insert ignores unique-key conflicts so concurrent
// callers converge on the same row.
func (r *GormStockRecordRepository) GetOrCreate(ctx context.Context, key stock.LedgerKey) (*stock.StockRecord, error) {
	record, err := r.FindByKey(ctx, key)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := stock.NewStockRecord(key.WarehouseID, key.ProductID, key.VariantID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, err
	}

	// Re-read: a concurrent insert may have won the conflict.
	return r.FindByKey(ctx, key)
}

// FindByWarehouse finds all stock records in a warehouse
func (r *GormStockRecordRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]stock.StockRecord, error) {
	var records []stock.StockRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.StockRecord{}).
			Where("warehouse_id = ?", warehouseID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByProduct finds stock records for a product across all warehouses
func (r *GormStockRecordRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]stock.StockRecord, error) {
	var records []stock.StockRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("warehouse_id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// QuantitiesByProduct returns the summed quantity on hand per product in a
// warehouse. Products without a record are left out of the map.
func (r *GormStockRecordRepository) QuantitiesByProduct(ctx context.Context, warehouseID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	quantities := make(map[uuid.UUID]decimal.Decimal)
	if len(productIDs) == 0 {
		return quantities, nil
	}

	var rows []struct {
		ProductID uuid.UUID
		Total     decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&stock.StockRecord{}).
		Select("product_id, COALESCE(SUM(quantity_on_hand), 0) AS total").
		Where("warehouse_id = ? AND product_id IN ?", warehouseID, productIDs).
		Group("product_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		quantities[row.ProductID] = row.Total
	}
	return quantities, nil
}

// Save creates or updates a stock record without a version check
func (r *GormStockRecordRepository) Save(ctx context.Context, record *stock.StockRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SaveWithLock updates a stock record guarded by its version column. A row
// modified since it was loaded matches zero rows and reports a conflict.
func (r *GormStockRecordRepository) SaveWithLock(ctx context.Context, record *stock.StockRecord, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&stock.StockRecord{}).
		Where("id = ? AND version = ?", record.ID, expectedVersion).
		Updates(map[string]interface{}{
			"quantity_on_hand": record.QuantityOnHand,
			"version":          record.Version,
			"updated_at":       record.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountWithStock counts records in a warehouse holding a positive quantity
func (r *GormStockRecordRepository) CountWithStock(ctx context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.StockRecord{}).
		Where("warehouse_id = ? AND quantity_on_hand > 0", warehouseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStockRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "with_stock":
			query = query.Where("quantity_on_hand > 0")
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("product_id ASC, variant_id ASC")
	}

	return query
}

// Ensure GormStockRecordRepository implements StockRecordRepository
var _ stock.StockRecordRepository = (*GormStockRecordRepository)(nil)
