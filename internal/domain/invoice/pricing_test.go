package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"onmuhasebe/internal/core/id"
	"onmuhasebe/internal/core/types"
)

func TestCalculateLine_SequentialDiscounts(t *testing.T) {
	line := Line{
		Quantity:     types.MustMoney("2"),
		UnitPrice:    types.MustMoney("100"),
		VATRate:      types.MustMoney("18"),
		Discount1Pct: types.MustMoney("10"),
		Discount2Pct: types.Zero(),
	}

	CalculateLine(&line)

	// 2 × 100 × 0.9 = 180; 180 × 1.18 = 212.4
	assert.True(t, line.TotalNet.Equal(types.MustMoney("180")), "net = %s", line.TotalNet)
	assert.True(t, line.TotalGross.Equal(types.MustMoney("212.4")), "gross = %s", line.TotalGross)
	assert.True(t, line.VATAmount.Equal(types.MustMoney("32.4")), "vat = %s", line.VATAmount)
}

func TestCalculateLine_BothDiscounts(t *testing.T) {
	line := Line{
		Quantity:     types.MustMoney("1"),
		UnitPrice:    types.MustMoney("200"),
		VATRate:      types.MustMoney("20"),
		Discount1Pct: types.MustMoney("10"),
		Discount2Pct: types.MustMoney("5"),
	}

	CalculateLine(&line)

	// 200 × 0.9 × 0.95 = 171; 171 × 1.2 = 205.2
	assert.True(t, line.TotalNet.Equal(types.MustMoney("171")))
	assert.True(t, line.TotalGross.Equal(types.MustMoney("205.2")))
}

func TestCalculateTotals_NoDiscount(t *testing.T) {
	lines := []Line{
		{Quantity: types.MustMoney("2"), UnitPrice: types.MustMoney("100"), VATRate: types.MustMoney("18"), Discount1Pct: types.MustMoney("10")},
		{Quantity: types.MustMoney("1"), UnitPrice: types.MustMoney("50"), VATRate: types.MustMoney("8")},
	}

	totals := CalculateTotals(lines, DiscountNone, types.Zero())

	// 180 + 50 = 230; 212.4 + 54 = 266.4
	assert.True(t, totals.Net.Equal(types.MustMoney("230")), "net = %s", totals.Net)
	assert.True(t, totals.Gross.Equal(types.MustMoney("266.4")), "gross = %s", totals.Gross)
}

func TestCalculateTotals_PercentDiscount(t *testing.T) {
	lines := []Line{
		{Quantity: types.MustMoney("1"), UnitPrice: types.MustMoney("100"), VATRate: types.MustMoney("18")},
	}

	totals := CalculateTotals(lines, DiscountPercent, types.MustMoney("10"))

	// discount = 100 × 10% = 10; net = 90, gross = 118 − 10 = 108
	assert.True(t, totals.Net.Equal(types.MustMoney("90")), "net = %s", totals.Net)
	assert.True(t, totals.Gross.Equal(types.MustMoney("108")), "gross = %s", totals.Gross)
}

func TestCalculateTotals_FixedDiscountUncapped(t *testing.T) {
	lines := []Line{
		{Quantity: types.MustMoney("1"), UnitPrice: types.MustMoney("100"), VATRate: types.Zero()},
	}

	totals := CalculateTotals(lines, DiscountAmount, types.MustMoney("150"))

	// Fixed discount exceeds the subtotal; totals go negative
	assert.True(t, totals.Net.Equal(types.MustMoney("-50")), "net = %s", totals.Net)
	assert.True(t, totals.Gross.Equal(types.MustMoney("-50")), "gross = %s", totals.Gross)
}

func TestRecalculate_MatchesLineSums(t *testing.T) {
	inv := New(TypeSale, id.New())
	inv.AddLine(id.New(), types.MustMoney("2"), types.MustMoney("100"), types.MustMoney("18"))
	inv.Lines[0].Discount1Pct = types.MustMoney("10")
	inv.AddLine(id.New(), types.MustMoney("3"), types.MustMoney("40"), types.MustMoney("8"))

	inv.Recalculate()

	sumNet := types.Zero()
	sumGross := types.Zero()
	for _, l := range inv.Lines {
		sumNet = sumNet.Add(l.TotalNet)
		sumGross = sumGross.Add(l.TotalGross)
	}

	assert.True(t, inv.TotalNet.Equal(sumNet))
	assert.True(t, inv.TotalGross.Equal(sumGross))
}
