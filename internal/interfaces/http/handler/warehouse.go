package handler

import (
	"github.com/fanstore/backend/internal/application/replenishment"
	appwarehouse "github.com/fanstore/backend/internal/application/warehouse"
	"github.com/fanstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// WarehouseHandler handles warehouse directory API endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *appwarehouse.WarehouseService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(warehouseService *appwarehouse.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// RegisterRoutes registers warehouse routes. Directory mutations are
// admin-only; reads are open to any authenticated actor.
func (h *WarehouseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	warehouses := rg.Group("/warehouses")
	adminOnly := middleware.RequireRole(replenishment.RoleAdmin)
	{
		warehouses.POST("", adminOnly, h.Create)
		warehouses.GET("", h.List)
		warehouses.GET("/:id", h.GetByID)
		warehouses.PUT("/:id", adminOnly, h.Update)
		warehouses.DELETE("/:id", adminOnly, h.Delete)
		warehouses.GET("/:id/children", h.ListChildren)
		warehouses.POST("/:id/activate", adminOnly, h.Activate)
		warehouses.POST("/:id/deactivate", adminOnly, h.Deactivate)
		warehouses.POST("/:id/bind-store", adminOnly, h.BindStore)
		warehouses.POST("/:id/unbind-store", adminOnly, h.UnbindStore)
	}
	rg.GET("/stores/:id/warehouse", h.ResolveStoreWarehouse)
}

// Create creates a new warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req appwarehouse.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.warehouseService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists warehouses. A code query parameter narrows the lookup to one
// warehouse by its unique code.
func (h *WarehouseHandler) List(c *gin.Context) {
	if code := c.Query("code"); code != "" {
		resp, err := h.warehouseService.GetByCode(c.Request.Context(), code)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
		return
	}

	var filter appwarehouse.WarehouseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	warehouses, total, err := h.warehouseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, warehouses, total, page, pageSize)
}

// GetByID retrieves a warehouse by ID
func (h *WarehouseHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.warehouseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update updates a warehouse's mutable fields
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req appwarehouse.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.warehouseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an inactive, empty warehouse
func (h *WarehouseHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.warehouseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListChildren lists the direct children of a warehouse
func (h *WarehouseHandler) ListChildren(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	children, err := h.warehouseService.ListChildren(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, children)
}

// Activate reactivates an inactive warehouse
func (h *WarehouseHandler) Activate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.warehouseService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deactivate deactivates a warehouse with a clean ledger
func (h *WarehouseHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.warehouseService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// BindStore binds a branch warehouse to a retail store
func (h *WarehouseHandler) BindStore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req appwarehouse.BindStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.warehouseService.BindStore(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UnbindStore removes the store binding from a warehouse
func (h *WarehouseHandler) UnbindStore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.warehouseService.UnbindStore(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ResolveStoreWarehouse returns the active branch warehouse serving a store
func (h *WarehouseHandler) ResolveStoreWarehouse(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.warehouseService.ResolveStoreWarehouse(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
