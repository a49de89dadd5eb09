package handlers

import (
	"github.com/gin-gonic/gin"

	"onmuhasebe/internal/domain/registers/cashflow"
)

// CashflowHandler handles HTTP requests for income/expense records.
type CashflowHandler struct {
	*BaseHandler
	service *cashflow.Service
}

// NewCashflowHandler creates a new cashflow handler.
func NewCashflowHandler(base *BaseHandler, service *cashflow.Service) *CashflowHandler {
	return &CashflowHandler{BaseHandler: base, service: service}
}

// List handles GET /registers/cashflow - income/expense records,
// optionally filtered by kind.
func (h *CashflowHandler) List(c *gin.Context) {
	var kind *cashflow.Kind
	if k := c.Query("kind"); k != "" {
		parsed := cashflow.Kind(k)
		kind = &parsed
	}

	result, err := h.service.List(c.Request.Context(), kind, h.ParseListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, listResponse(result, nil))
}
