package warehouse

import (
	"time"

	"github.com/fanstore/backend/internal/domain/warehouse"
	"github.com/google/uuid"
)

// CreateWarehouseRequest is the request to create a warehouse
type CreateWarehouseRequest struct {
	Code              string     `json:"code" binding:"required,max=50"`
	Name              string     `json:"name" binding:"required,max=200"`
	Type              string     `json:"type" binding:"required,oneof=main regional branch"`
	ParentWarehouseID *uuid.UUID `json:"parent_warehouse_id,omitempty"`
	StoreID           *uuid.UUID `json:"store_id,omitempty"`
	Address           string     `json:"address,omitempty" binding:"max=500"`
	City              string     `json:"city,omitempty" binding:"max=100"`
	Province          string     `json:"province,omitempty" binding:"max=100"`
	PostalCode        string     `json:"postal_code,omitempty" binding:"max=20"`
	ContactName       string     `json:"contact_name,omitempty" binding:"max=100"`
	Phone             string     `json:"phone,omitempty" binding:"max=50"`
	Notes             string     `json:"notes,omitempty"`
}

// UpdateWarehouseRequest is the request to update a warehouse
type UpdateWarehouseRequest struct {
	Name              *string    `json:"name,omitempty" binding:"omitempty,max=200"`
	ParentWarehouseID *uuid.UUID `json:"parent_warehouse_id,omitempty"`
	Address           *string    `json:"address,omitempty" binding:"omitempty,max=500"`
	City              *string    `json:"city,omitempty" binding:"omitempty,max=100"`
	Province          *string    `json:"province,omitempty" binding:"omitempty,max=100"`
	PostalCode        *string    `json:"postal_code,omitempty" binding:"omitempty,max=20"`
	ContactName       *string    `json:"contact_name,omitempty" binding:"omitempty,max=100"`
	Phone             *string    `json:"phone,omitempty" binding:"omitempty,max=50"`
	Notes             *string    `json:"notes,omitempty"`
}

// BindStoreRequest is the request to bind a branch warehouse to a store
type BindStoreRequest struct {
	StoreID uuid.UUID `json:"store_id" binding:"required"`
}

// WarehouseListFilter is the filter for listing warehouses
type WarehouseListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Type     string `form:"type" binding:"omitempty,oneof=main regional branch"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Search   string `form:"search"`
}

// WarehouseResponse is the response for warehouse operations
type WarehouseResponse struct {
	ID                uuid.UUID  `json:"id"`
	Code              string     `json:"code"`
	Name              string     `json:"name"`
	Type              string     `json:"type"`
	Status            string     `json:"status"`
	ParentWarehouseID *uuid.UUID `json:"parent_warehouse_id,omitempty"`
	StoreID           *uuid.UUID `json:"store_id,omitempty"`
	Address           string     `json:"address,omitempty"`
	City              string     `json:"city,omitempty"`
	Province          string     `json:"province,omitempty"`
	PostalCode        string     `json:"postal_code,omitempty"`
	ContactName       string     `json:"contact_name,omitempty"`
	Phone             string     `json:"phone,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Version           int        `json:"version"`
}

// ToWarehouseResponse converts a domain warehouse to a response DTO
func ToWarehouseResponse(w *warehouse.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:                w.ID,
		Code:              w.Code,
		Name:              w.Name,
		Type:              w.Type.String(),
		Status:            string(w.Status),
		ParentWarehouseID: w.ParentWarehouseID,
		StoreID:           w.StoreID,
		Address:           w.Address,
		City:              w.City,
		Province:          w.Province,
		PostalCode:        w.PostalCode,
		ContactName:       w.ContactName,
		Phone:             w.Phone,
		Notes:             w.Notes,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
		Version:           w.Version,
	}
}

// ToWarehouseResponses converts a slice of warehouses to response DTOs
func ToWarehouseResponses(warehouses []warehouse.Warehouse) []WarehouseResponse {
	responses := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		responses[i] = ToWarehouseResponse(&warehouses[i])
	}
	return responses
}
