package pricing

import "airsolutions/internal/core/types"

// Totals are the header sums of a document's lines.
type Totals struct {
	Subtotal      types.Money `db:"subtotal" json:"subtotal"`
	DiscountTotal types.Money `db:"discount_total" json:"discountTotal"`
	TaxTotal      types.Money `db:"tax_total" json:"taxTotal"`
	GrandTotal    types.Money `db:"grand_total" json:"grandTotal"`
}

// Summarize sums each line field and rounds every sum independently.
func Summarize(lines []Line) Totals {
	var sub, disc, tax, grand types.Money
	for _, l := range lines {
		sub = sub.Add(l.Subtotal)
		disc = disc.Add(l.DiscountTotal)
		tax = tax.Add(l.TaxTotal)
		grand = grand.Add(l.LineTotal)
	}
	return Totals{
		Subtotal:      types.Round2(sub),
		DiscountTotal: types.Round2(disc),
		TaxTotal:      types.Round2(tax),
		GrandTotal:    types.Round2(grand),
	}
}
