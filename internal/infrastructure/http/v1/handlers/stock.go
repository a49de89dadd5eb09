package handlers

import (
	"github.com/gin-gonic/gin"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/domain/registers/stock"
)

// StockHandler handles HTTP requests for the stock movement log.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service}
}

// Movements handles GET /registers/stock/movements - the append-only
// movement history, optionally filtered by product.
func (h *StockHandler) Movements(c *gin.Context) {
	var productID *id.ID
	if pid := c.Query("productId"); pid != "" {
		if parsed, err := id.Parse(pid); err == nil {
			productID = &parsed
		}
	}

	result, err := h.service.Movements(c.Request.Context(), productID, h.ParseListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, listResponse(result, nil))
}
