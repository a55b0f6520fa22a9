package handler

import (
	"github.com/fanstore/backend/internal/application/replenishment"
	"github.com/gin-gonic/gin"
)

// InventoryRequestHandler handles the replenishment workflow API endpoints
type InventoryRequestHandler struct {
	BaseHandler
	requestService *replenishment.RequestService
}

// NewInventoryRequestHandler creates a new InventoryRequestHandler
func NewInventoryRequestHandler(requestService *replenishment.RequestService) *InventoryRequestHandler {
	return &InventoryRequestHandler{requestService: requestService}
}

// RegisterRoutes registers inventory request routes
func (h *InventoryRequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/inventory-requests")
	{
		requests.POST("", h.Create)
		requests.GET("", h.List)
		requests.GET("/:id", h.GetByID)
		requests.POST("/:id/approve", h.Approve)
		requests.POST("/:id/reject", h.Reject)
		requests.POST("/:id/ship", h.StartShipping)
		requests.POST("/:id/deliver", h.CompleteDelivery)
		requests.POST("/:id/cancel", h.Cancel)
	}
}

// Create raises a new inventory request for a branch warehouse
func (h *InventoryRequestHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}

	var req replenishment.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.requestService.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists inventory requests with filtering and pagination
func (h *InventoryRequestHandler) List(c *gin.Context) {
	var filter replenishment.RequestListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	requests, total, err := h.requestService.List(c.Request.Context(), filter)
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
	h.SuccessWithMeta(c, requests, total, page, pageSize)
}

// GetByID retrieves an inventory request with its items
func (h *InventoryRequestHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.requestService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve approves a pending request, fixing source and quantities
func (h *InventoryRequestHandler) Approve(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req replenishment.ApproveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.requestService.Approve(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reject rejects a pending request with a reason
func (h *InventoryRequestHandler) Reject(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req replenishment.RejectRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.requestService.Reject(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// StartShipping moves an approved request into shipping
func (h *InventoryRequestHandler) StartShipping(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.requestService.StartShipping(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CompleteDelivery confirms delivery and moves the stock
func (h *InventoryRequestHandler) CompleteDelivery(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.requestService.CompleteDelivery(c.Request.Context(), id, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel cancels a request that has not been delivered yet. Only the
// requester may cancel.
func (h *InventoryRequestHandler) Cancel(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req replenishment.CancelRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.requestService.Cancel(c.Request.Context(), id, req, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
