package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/fanstore/backend/internal/domain/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStoreInventoryRepository implements StoreInventoryRepository using GORM
type GormStoreInventoryRepository struct {
	db *gorm.DB
}

// NewGormStoreInventoryRepository creates a new GormStoreInventoryRepository
func NewGormStoreInventoryRepository(db *gorm.DB) *GormStoreInventoryRepository {
	return &GormStoreInventoryRepository{db: db}
}

// FindByID finds a record by its ID
func (r *GormStoreInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.StoreInventoryRecord, error) {
	var record store.StoreInventoryRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByStoreAndProduct finds the record for a store-product pair
func (r *GormStoreInventoryRepository) FindByStoreAndProduct(ctx context.Context, storeID, productID uuid.UUID) (*store.StoreInventoryRecord, error) {
	var record store.StoreInventoryRecord
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetOrCreate returns the record for a store-product pair, inserting an
// unavailable record if none exists. The insert ignores unique-key conflicts
// so concurrent callers converge on the same row.
func (r *GormStoreInventoryRepository) GetOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*store.StoreInventoryRecord, error) {
	record, err := r.FindByStoreAndProduct(ctx, storeID, productID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fresh, err := store.NewStoreInventoryRecord(storeID, productID)
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error; err != nil {
		return nil, err
	}

	return r.FindByStoreAndProduct(ctx, storeID, productID)
}

// FindByStore lists records for a store
func (r *GormStoreInventoryRepository) FindByStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]store.StoreInventoryRecord, error) {
	var records []store.StoreInventoryRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&store.StoreInventoryRecord{}).
			Where("store_id = ?", storeID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a record
func (r *GormStoreInventoryRepository) Save(ctx context.Context, record *store.StoreInventoryRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// Count counts records for a store matching the filter
func (r *GormStoreInventoryRepository) Count(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&store.StoreInventoryRecord{}).
		Where("store_id = ?", storeID)
	if avail, ok := filter.Filters["is_available"]; ok {
		query = query.Where("is_available = ?", avail)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStoreInventoryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if avail, ok := filter.Filters["is_available"]; ok {
		query = query.Where("is_available = ?", avail)
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
		query = query.Order("product_id ASC")
	}

	return query
}

// Ensure GormStoreInventoryRepository implements StoreInventoryRepository
var _ store.StoreInventoryRepository = (*GormStoreInventoryRepository)(nil)
