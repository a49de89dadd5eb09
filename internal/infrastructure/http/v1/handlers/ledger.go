package handlers

import (
	"github.com/gin-gonic/gin"

	"onmuhasebe/internal/core/types"
	"onmuhasebe/internal/domain/registers/ledger"
	"onmuhasebe/internal/infrastructure/http/v1/dto"
)

// LedgerHandler handles HTTP requests for the counterparty ledger.
type LedgerHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewLedgerHandler creates a new ledger handler.
func NewLedgerHandler(base *BaseHandler, service *ledger.Service) *LedgerHandler {
	return &LedgerHandler{BaseHandler: base, service: service}
}

// Statement handles GET /registers/ledger/:counterpartyId - one
// counterparty's entries in date order.
func (h *LedgerHandler) Statement(c *gin.Context) {
	counterpartyID, ok := h.ParseIDParam(c, "counterpartyId")
	if !ok {
		return
	}

	result, err := h.service.Statement(c.Request.Context(), counterpartyID, h.ParseListFilter(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, listResponse(result, nil))
}

// Balance handles GET /registers/ledger/:counterpartyId/balance -
// sum(debit) minus sum(credit) for the counterparty.
func (h *LedgerHandler) Balance(c *gin.Context) {
	counterpartyID, ok := h.ParseIDParam(c, "counterpartyId")
	if !ok {
		return
	}

	balance, err := h.service.Balance(c.Request.Context(), counterpartyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.BalanceResponse{Balance: types.Round2(balance)})
}
