package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onmuhasebe/internal/domain/registers/cash"
	"onmuhasebe/internal/infrastructure/http/v1/dto"
)

// CashAccountHandler handles HTTP requests for cash/bank accounts.
type CashAccountHandler struct {
	*BaseHandler
	service *cash.Service
}

// NewCashAccountHandler creates a new cash account handler.
func NewCashAccountHandler(base *BaseHandler, service *cash.Service) *CashAccountHandler {
	return &CashAccountHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/cash-accounts.
func (h *CashAccountHandler) Create(c *gin.Context) {
	var req dto.CreateCashAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), a); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// Get handles GET /catalog/cash-accounts/:id.
func (h *CashAccountHandler) Get(c *gin.Context) {
	accountID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, a)
}

// Update handles PUT /catalog/cash-accounts/:id.
func (h *CashAccountHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	accountID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCashAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a, err := h.service.GetByID(ctx, accountID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(a)

	if err := h.service.Update(ctx, a); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, a)
}

// Delete handles DELETE /catalog/cash-accounts/:id.
func (h *CashAccountHandler) Delete(c *gin.Context) {
	accountID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), accountID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /catalog/cash-accounts.
func (h *CashAccountHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), h.ParseListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, listResponse(result, nil))
}
