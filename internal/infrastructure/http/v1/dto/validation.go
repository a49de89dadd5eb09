package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"onmuhasebe/internal/domain/catalogs/counterparty"
	"onmuhasebe/internal/domain/invoice"
)

// RegisterValidators installs the enum validators used by request
// binding tags on gin's validator engine. Call once at router setup.
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("invoicetype", func(fl validator.FieldLevel) bool {
		return invoice.InvoiceType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("paymenttype", func(fl validator.FieldLevel) bool {
		return invoice.PaymentType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("discounttype", func(fl validator.FieldLevel) bool {
		return invoice.DiscountType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("counterpartytype", func(fl validator.FieldLevel) bool {
		return counterparty.Type(fl.Field().String()).Valid()
	})
}
