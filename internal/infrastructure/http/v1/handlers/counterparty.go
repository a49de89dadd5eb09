package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onmuhasebe/internal/domain/catalogs/counterparty"
	"onmuhasebe/internal/infrastructure/http/v1/dto"
)

// CounterpartyHandler handles HTTP requests for counterparties.
type CounterpartyHandler struct {
	*BaseHandler
	service *counterparty.Service
}

// NewCounterpartyHandler creates a new counterparty handler.
func NewCounterpartyHandler(base *BaseHandler, service *counterparty.Service) *CounterpartyHandler {
	return &CounterpartyHandler{BaseHandler: base, service: service}
}

// Create handles POST /catalog/counterparties.
func (h *CounterpartyHandler) Create(c *gin.Context) {
	var req dto.CreateCounterpartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cp := req.ToEntity()
	if err := h.service.Create(c.Request.Context(), cp); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, cp)
}

// Get handles GET /catalog/counterparties/:id.
func (h *CounterpartyHandler) Get(c *gin.Context) {
	cpID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	cp, err := h.service.GetByID(c.Request.Context(), cpID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, cp)
}

// Update handles PUT /catalog/counterparties/:id.
func (h *CounterpartyHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	cpID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCounterpartyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	cp, err := h.service.GetByID(ctx, cpID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(cp)

	if err := h.service.Update(ctx, cp); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, cp)
}

// Delete handles DELETE /catalog/counterparties/:id.
func (h *CounterpartyHandler) Delete(c *gin.Context) {
	cpID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), cpID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List handles GET /catalog/counterparties.
func (h *CounterpartyHandler) List(c *gin.Context) {
	result, err := h.service.List(c.Request.Context(), h.ParseListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, listResponse(result, nil))
}
