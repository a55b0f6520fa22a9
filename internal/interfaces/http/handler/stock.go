package handler

import (
	"github.com/fanstore/backend/internal/application/replenishment"
	appstock "github.com/fanstore/backend/internal/application/stock"
	"github.com/fanstore/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler handles stock ledger and transfer API endpoints
type StockHandler struct {
	BaseHandler
	stockService    *appstock.StockService
	transferService *appstock.TransferService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *appstock.StockService, transferService *appstock.TransferService) *StockHandler {
	return &StockHandler{
		stockService:    stockService,
		transferService: transferService,
	}
}

// RegisterRoutes registers stock ledger routes. Writing movements and
// transfers is admin-only; reads are open to any authenticated actor.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	adminOnly := middleware.RequireRole(replenishment.RoleAdmin)
	{
		stock.GET("/records", h.ListRecords)
		stock.GET("/quantity", h.GetQuantity)
		stock.POST("/quantities", h.QuantitiesByProduct)
		stock.GET("/movements", h.ListMovements)
		stock.POST("/movements", adminOnly, h.ApplyMovement)
		stock.POST("/transfers", adminOnly, h.Transfer)
	}
}

// stockRecordQuery binds the warehouse-scoped record listing parameters
type stockRecordQuery struct {
	WarehouseID uuid.UUID `form:"warehouse_id" binding:"required"`
	Page        int       `form:"page"`
	PageSize    int       `form:"page_size"`
}

// ListRecords lists the stock positions held in a warehouse
func (h *StockHandler) ListRecords(c *gin.Context) {
	var query stockRecordQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	records, err := h.stockService.ListByWarehouse(c.Request.Context(), query.WarehouseID, query.Page, query.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// stockQuantityQuery binds the single-position lookup parameters
type stockQuantityQuery struct {
	WarehouseID uuid.UUID  `form:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID  `form:"product_id" binding:"required"`
	VariantID   *uuid.UUID `form:"variant_id"`
}

// GetQuantity returns the quantity on hand for one ledger key. Keys that
// never moved report zero.
func (h *StockHandler) GetQuantity(c *gin.Context) {
	var query stockQuantityQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	record, err := h.stockService.GetQuantity(c.Request.Context(), query.WarehouseID, query.ProductID, query.VariantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// quantitiesRequest is the batched per-product quantity lookup body
type quantitiesRequest struct {
	WarehouseID uuid.UUID   `json:"warehouse_id" binding:"required"`
	ProductIDs  []uuid.UUID `json:"product_ids" binding:"required,min=1,max=200"`
}

// QuantitiesByProduct returns the quantity on hand per product for a batch
// of product IDs in one warehouse
func (h *StockHandler) QuantitiesByProduct(c *gin.Context) {
	var req quantitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	quantities, err := h.stockService.QuantitiesByProduct(c.Request.Context(), req.WarehouseID, req.ProductIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quantities)
}

// ListMovements lists ledger movements, newest first
func (h *StockHandler) ListMovements(c *gin.Context) {
	var filter appstock.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	movements, err := h.stockService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// ApplyMovement records an import, export, or adjustment movement
func (h *StockHandler) ApplyMovement(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req appstock.ApplyMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	movement, err := h.stockService.ApplyMovement(c.Request.Context(), req, actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// Transfer moves stock between two warehouses in one transaction. An
// Idempotency-Key header is honoured when the body carries no key.
func (h *StockHandler) Transfer(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req appstock.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	transfer, err := h.transferService.Transfer(c.Request.Context(), req, actor.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, transfer)
}
