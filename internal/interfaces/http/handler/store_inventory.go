package handler

import (
	appstore "github.com/fanstore/backend/internal/application/store"
	"github.com/gin-gonic/gin"
)

// StoreInventoryHandler handles the storefront inventory view API endpoints
type StoreInventoryHandler struct {
	BaseHandler
	storeService *appstore.StoreInventoryService
}

// NewStoreInventoryHandler creates a new StoreInventoryHandler
func NewStoreInventoryHandler(storeService *appstore.StoreInventoryService) *StoreInventoryHandler {
	return &StoreInventoryHandler{storeService: storeService}
}

// RegisterRoutes registers store inventory routes
func (h *StoreInventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stores := rg.Group("/stores/:id")
	{
		stores.GET("/products", h.ListProducts)
		stores.GET("/products/:productId/availability", h.GetAvailability)
		stores.PUT("/availability", h.SetAvailability)
	}
}

// ListProducts lists a store's products: the availability switch enriched
// with the branch warehouse's quantity on hand
func (h *StoreInventoryHandler) ListProducts(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var filter appstore.StoreProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	products, total, err := h.storeService.ListProducts(c.Request.Context(), storeID, filter)
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
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// GetAvailability returns a product's availability switch in a store
func (h *StoreInventoryHandler) GetAvailability(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	resp, err := h.storeService.GetAvailability(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetAvailability switches a product's availability in a store. The switch
// is independent of the quantity on hand.
func (h *StoreInventoryHandler) SetAvailability(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req appstore.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.storeService.SetAvailability(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
