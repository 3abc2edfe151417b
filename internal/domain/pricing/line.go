// Package pricing computes the monetary fields of quote and invoice lines.
//
// Rounding happens at exactly three points per line (subtotal, discount,
// tax) plus the final line total; the base after discount is never rounded
// on its own.
package pricing

import (
	"strings"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/id"
	"airsolutions/internal/core/types"
)

// Input holds the raw, user-supplied values of a line.
type Input struct {
	Name         string      `db:"name" json:"name"`
	Description  *string     `db:"description" json:"description,omitempty"`
	Quantity     types.Money `db:"quantity" json:"quantity"`
	UnitPrice    types.Money `db:"unit_price" json:"unitPrice"`
	DiscountRate types.Money `db:"discount_value" json:"discountValue"` // percent 0..100
	IsTaxable    bool        `db:"is_taxable" json:"isTaxable"`
	TaxRate      types.Money `db:"tax_rate" json:"taxRate"` // percent 0..100
	ItemID       *id.ID      `db:"catalog_item_id" json:"catalogItemId,omitempty"`
}

// Amounts are the computed, persisted outputs of a line.
type Amounts struct {
	Subtotal      types.Money `db:"line_subtotal" json:"lineSubtotal"`
	DiscountTotal types.Money `db:"discount_total" json:"discountTotal"`
	TaxTotal      types.Money `db:"tax_total" json:"taxTotal"`
	LineTotal     types.Money `db:"line_total" json:"lineTotal"`
}

// BaseAfterDiscount is Subtotal minus DiscountTotal.
func (a Amounts) BaseAfterDiscount() types.Money {
	return a.Subtotal.Sub(a.DiscountTotal)
}

// Line is a priced row shared by quotes and invoices.
type Line struct {
	ID     id.ID `db:"id" json:"id"`
	LineNo int   `db:"line_no" json:"lineNo"`

	Input
	Amounts
}

// Compute derives the monetary fields of one line.
func Compute(in Input) Amounts {
	subtotal := types.Round2(in.Quantity.Mul(in.UnitPrice))
	discount := types.Round2(types.Percent(subtotal, in.DiscountRate))
	base := subtotal.Sub(discount)

	tax := types.Zero()
	if in.IsTaxable {
		tax = types.Round2(types.Percent(base, in.TaxRate))
	}

	return Amounts{
		Subtotal:      subtotal,
		DiscountTotal: discount,
		TaxTotal:      tax,
		LineTotal:     types.Round2(base.Add(tax)),
	}
}

// Validate appends every problem of the line to c. lineNo is 1-based and
// prefixes the messages so a caller can tell lines apart.
func Validate(in Input, lineNo int, c *apperror.Collector) {
	if strings.TrimSpace(in.Name) == "" {
		c.Addf("line %d: name is required", lineNo)
	}
	if !in.Quantity.IsPositive() {
		c.Addf("line %d: quantity must be greater than 0", lineNo)
	}
	if in.UnitPrice.IsNegative() {
		c.Addf("line %d: unit price cannot be negative", lineNo)
	}
	if !types.InPercentRange(in.DiscountRate) {
		c.Addf("line %d: discount must be between 0 and 100", lineNo)
	}
	if !types.InPercentRange(in.TaxRate) {
		c.Addf("line %d: tax rate must be between 0 and 100", lineNo)
	}
}

// Build validates every input, collecting all errors, then returns numbered
// lines with computed amounts. An empty input list is reported with
// emptyMessage.
func Build(inputs []Input, emptyMessage string, c *apperror.Collector) []Line {
	if len(inputs) == 0 {
		c.Add(emptyMessage)
		return nil
	}

	before := c.Len()
	for i, in := range inputs {
		Validate(in, i+1, c)
	}
	if c.Len() > before {
		return nil
	}

	lines := make([]Line, 0, len(inputs))
	for i, in := range inputs {
		in.Name = strings.TrimSpace(in.Name)
		in.Description = types.TrimToNil(in.Description)
		lines = append(lines, Line{
			ID:      id.New(),
			LineNo:  i + 1,
			Input:   in,
			Amounts: Compute(in),
		})
	}
	return lines
}
