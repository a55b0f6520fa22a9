package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fanstore/backend/internal/domain/replenishment"
	"github.com/fanstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryRequestRepository implements InventoryRequestRepository using GORM
type GormInventoryRequestRepository struct {
	db *gorm.DB
}

// NewGormInventoryRequestRepository creates a new GormInventoryRequestRepository
func NewGormInventoryRequestRepository(db *gorm.DB) *GormInventoryRequestRepository {
	return &GormInventoryRequestRepository{db: db}
}

// FindByID finds a request by its ID, items included
func (r *GormInventoryRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*replenishment.InventoryRequest, error) {
	var request replenishment.InventoryRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindByNumber finds a request by its request number, items included
func (r *GormInventoryRequestRepository) FindByNumber(ctx context.Context, number string) (*replenishment.InventoryRequest, error) {
	var request replenishment.InventoryRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("request_number = ?", strings.ToUpper(number)).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindAll finds requests matching the filter, items included
func (r *GormInventoryRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]replenishment.InventoryRequest, error) {
	var requests []replenishment.InventoryRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&replenishment.InventoryRequest{}).Preload("Items"),
		filter,
	)

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByRequestingWarehouse lists requests raised by a warehouse
func (r *GormInventoryRequestRepository) FindByRequestingWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]replenishment.InventoryRequest, error) {
	var requests []replenishment.InventoryRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&replenishment.InventoryRequest{}).
			Preload("Items").
			Where("requesting_warehouse_id = ?", warehouseID),
		filter,
	)

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// CountOpenByWarehouse counts non-terminal requests referencing the warehouse
// as requester or source
func (r *GormInventoryRequestRepository) CountOpenByWarehouse(ctx context.Context, warehouseID uuid.UUID) (int64, error) {
	var count int64
	openStatuses := []replenishment.RequestStatus{
		replenishment.RequestStatusPending,
		replenishment.RequestStatusApproved,
		replenishment.RequestStatusShipping,
	}
	if err := r.db.WithContext(ctx).
		Model(&replenishment.InventoryRequest{}).
		Where("status IN ?", openStatuses).
		Where("requesting_warehouse_id = ? OR source_warehouse_id = ?", warehouseID, warehouseID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a request together with its items
func (r *GormInventoryRequestRepository) Save(ctx context.Context, request *replenishment.InventoryRequest) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(request).Error
}

// SaveWithLock updates a request guarded by its version column, then writes
// the items. Runs in a transaction so a version conflict leaves the items
// untouched.
func (r *GormInventoryRequestRepository) SaveWithLock(ctx context.Context, request *replenishment.InventoryRequest, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&replenishment.InventoryRequest{}).
			Where("id = ? AND version = ?", request.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":              request.Status,
				"source_warehouse_id": request.SourceWarehouseID,
				"approved_by":         request.ApprovedBy,
				"note":                request.Note,
				"reject_reason":       request.RejectReason,
				"cancel_reason":       request.CancelReason,
				"shipment_id":         request.ShipmentID,
				"approved_at":         request.ApprovedAt,
				"shipped_at":          request.ShippedAt,
				"delivered_at":        request.DeliveredAt,
				"version":             request.Version,
				"updated_at":          request.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range request.Items {
			if err := tx.Save(&request.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts requests matching the filter
func (r *GormInventoryRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&replenishment.InventoryRequest{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// NextRequestNumber produces the next sequential request number for a prefix,
// e.g. NextRequestNumber(ctx, "IR-2026") yields "IR-2026-000042".
func (r *GormInventoryRequestRepository) NextRequestNumber(ctx context.Context, prefix string) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&replenishment.InventoryRequest{}).
		Where("request_number LIKE ?", strings.ToUpper(prefix)+"-%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%06d", strings.ToUpper(prefix), count+1), nil
}

// applyFilter applies filter options to the query
func (r *GormInventoryRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

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
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormInventoryRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("request_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "requesting_warehouse_id":
			query = query.Where("requesting_warehouse_id = ?", value)
		case "source_warehouse_id":
			query = query.Where("source_warehouse_id = ?", value)
		case "requested_by":
			query = query.Where("requested_by = ?", value)
		}
	}

	return query
}

// Ensure GormInventoryRequestRepository implements InventoryRequestRepository
var _ replenishment.InventoryRequestRepository = (*GormInventoryRequestRepository)(nil)
