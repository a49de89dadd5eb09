package invoice

import (
	"onmuhasebe/internal/core/types"
)

// CalculateLine fills the calculated totals of a line from its quantity,
// unit price, VAT rate and the two sequential percentage discounts:
//
//	discounted = unit_price × (1 − d1/100) × (1 − d2/100)
//	total_net  = qty × discounted
//	total_gross = total_net × (1 + vat/100)
//
// Full precision throughout, rounding happens at presentation only.
func CalculateLine(line *Line) {
	discounted := line.UnitPrice.
		Mul(types.OneMinusPct(line.Discount1Pct)).
		Mul(types.OneMinusPct(line.Discount2Pct))

	line.TotalNet = line.Quantity.Mul(discounted)
	line.TotalGross = line.TotalNet.Mul(types.OnePlusPct(line.VATRate))
	line.VATAmount = line.TotalGross.Sub(line.TotalNet)
}

// Totals holds invoice-level sums after the invoice-level discount.
type Totals struct {
	Net   types.Money
	Gross types.Money
}

// CalculateTotals recalculates every line and sums them, then applies
// the invoice-level discount.
//
// The fixed-amount discount is intentionally not capped against the
// subtotal, so totals can go negative.
func CalculateTotals(lines []Line, discountType DiscountType, discountValue types.Money) Totals {
	sumNet := types.Zero()
	sumGross := types.Zero()

	for i := range lines {
		CalculateLine(&lines[i])
		sumNet = sumNet.Add(lines[i].TotalNet)
		sumGross = sumGross.Add(lines[i].TotalGross)
	}

	var discount types.Money
	switch discountType {
	case DiscountPercent:
		discount = types.PercentOf(sumNet, discountValue)
	case DiscountAmount:
		discount = discountValue
	default:
		discount = types.Zero()
	}

	return Totals{
		Net:   sumNet.Sub(discount),
		Gross: sumGross.Sub(discount),
	}
}

// Recalculate applies CalculateTotals to the invoice in place.
func (inv *Invoice) Recalculate() {
	totals := CalculateTotals(inv.Lines, inv.DiscountType, inv.DiscountValue)
	inv.TotalNet = totals.Net
	inv.TotalGross = totals.Gross
}
