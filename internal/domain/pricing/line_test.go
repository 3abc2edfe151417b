package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/types"
)

func money(s string) types.Money { return types.MustMoney(s) }

func TestCompute_DiscountThenTax(t *testing.T) {
	got := Compute(Input{
		Name:         "Instalacion split 12k",
		Quantity:     money("2"),
		UnitPrice:    money("100"),
		DiscountRate: money("10"),
		IsTaxable:    true,
		TaxRate:      money("18"),
	})

	assert.Equal(t, "200.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "20.00", got.DiscountTotal.StringFixed(2))
	assert.Equal(t, "180.00", got.BaseAfterDiscount().StringFixed(2))
	assert.Equal(t, "32.40", got.TaxTotal.StringFixed(2))
	assert.Equal(t, "212.40", got.LineTotal.StringFixed(2))
}

func TestCompute_NotTaxableIgnoresRate(t *testing.T) {
	got := Compute(Input{
		Name:      "Material",
		Quantity:  money("3"),
		UnitPrice: money("10.10"),
		IsTaxable: false,
		TaxRate:   money("18"),
	})

	assert.True(t, got.TaxTotal.IsZero())
	assert.Equal(t, "30.30", got.LineTotal.StringFixed(2))
}

func TestCompute_RoundsOnlyAtMarkedPoints(t *testing.T) {
	// 1.5 * 3.33 = 4.995 -> 5.00; 5.00 * 12.5% = 0.625 -> 0.62; base 4.38; 4.38 * 18% = 0.7884 -> 0.79
	got := Compute(Input{
		Name:         "x",
		Quantity:     money("1.5"),
		UnitPrice:    money("3.33"),
		DiscountRate: money("12.5"),
		IsTaxable:    true,
		TaxRate:      money("18"),
	})

	assert.Equal(t, "5.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "0.62", got.DiscountTotal.StringFixed(2))
	assert.Equal(t, "0.79", got.TaxTotal.StringFixed(2))
	assert.Equal(t, "5.17", got.LineTotal.StringFixed(2))
}

func TestCompute_HalfCentsRoundToEven(t *testing.T) {
	tests := []struct {
		name                 string
		in                   Input
		discount, tax, total string
	}{
		{
			name:     "tax 12.25 at 18% is 2.205",
			in:       Input{Name: "a", Quantity: money("1"), UnitPrice: money("12.25"), IsTaxable: true, TaxRate: money("18")},
			discount: "0.00", tax: "2.20", total: "14.45",
		},
		{
			name:     "discount 0.25 at 10% is 0.025",
			in:       Input{Name: "b", Quantity: money("1"), UnitPrice: money("0.25"), DiscountRate: money("10")},
			discount: "0.02", tax: "0.00", total: "0.23",
		},
		{
			name:     "odd cent rounds up",
			in:       Input{Name: "c", Quantity: money("1"), UnitPrice: money("0.35"), DiscountRate: money("10")},
			discount: "0.04", tax: "0.00", total: "0.31",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.in)
			assert.Equal(t, tt.discount, got.DiscountTotal.StringFixed(2))
			assert.Equal(t, tt.tax, got.TaxTotal.StringFixed(2))
			assert.Equal(t, tt.total, got.LineTotal.StringFixed(2))
		})
	}
}

// The line total always matches the closed-form cascade.
func TestCompute_Property(t *testing.T) {
	r2 := func(d decimal.Decimal) decimal.Decimal { return d.RoundBank(2) }
	h := decimal.NewFromInt(100)

	quantities := []string{"0.5", "1", "2", "3.333", "7", "10.25"}
	prices := []string{"0", "0.99", "19.99", "100", "1234.565"}
	discounts := []string{"0", "5", "12.5", "33.33", "100"}
	taxes := []string{"0", "16", "18"}

	for _, q := range quantities {
		for _, p := range prices {
			for _, d := range discounts {
				for _, tx := range taxes {
					for _, taxable := range []bool{true, false} {
						in := Input{
							Name:         "p",
							Quantity:     money(q),
							UnitPrice:    money(p),
							DiscountRate: money(d),
							IsTaxable:    taxable,
							TaxRate:      money(tx),
						}
						sub := r2(in.Quantity.Mul(in.UnitPrice))
						disc := r2(sub.Mul(in.DiscountRate).Div(h))
						tax := decimal.Zero
						if taxable {
							tax = r2(sub.Sub(disc).Mul(in.TaxRate).Div(h))
						}
						want := r2(sub.Sub(disc).Add(tax))

						got := Compute(in)
						require.True(t, want.Equal(got.LineTotal),
							"q=%s p=%s d=%s t=%s taxable=%v: want %s got %s", q, p, d, tx, taxable, want, got.LineTotal)
					}
				}
			}
		}
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	var c apperror.Collector
	Validate(Input{
		Name:         "  ",
		Quantity:     money("0"),
		UnitPrice:    money("-1"),
		DiscountRate: money("101"),
		TaxRate:      money("-5"),
	}, 2, &c)

	err := c.Err()
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{
		"line 2: name is required",
		"line 2: quantity must be greater than 0",
		"line 2: unit price cannot be negative",
		"line 2: discount must be between 0 and 100",
		"line 2: tax rate must be between 0 and 100",
	}, appErr.Messages())
}

func TestBuild(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var c apperror.Collector
		lines := Build(nil, "at least one line is required", &c)
		assert.Nil(t, lines)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("errors across lines are all reported", func(t *testing.T) {
		var c apperror.Collector
		lines := Build([]Input{
			{Name: "", Quantity: money("1")},
			{Name: "ok", Quantity: money("1")},
			{Name: "bad", Quantity: money("-1")},
		}, "empty", &c)
		assert.Nil(t, lines)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("numbers and trims lines", func(t *testing.T) {
		var c apperror.Collector
		desc := "  "
		lines := Build([]Input{
			{Name: " Mano de obra ", Description: &desc, Quantity: money("1"), UnitPrice: money("50")},
			{Name: "Gas", Quantity: money("2"), UnitPrice: money("10"), IsTaxable: true, TaxRate: money("18")},
		}, "empty", &c)
		require.NoError(t, c.Err())
		require.Len(t, lines, 2)
		assert.Equal(t, 1, lines[0].LineNo)
		assert.Equal(t, "Mano de obra", lines[0].Name)
		assert.Nil(t, lines[0].Description)
		assert.Equal(t, 2, lines[1].LineNo)
		assert.Equal(t, "23.60", lines[1].LineTotal.StringFixed(2))
	})
}

func TestSummarize(t *testing.T) {
	var c apperror.Collector
	lines := Build([]Input{
		{Name: "a", Quantity: money("2"), UnitPrice: money("100"), DiscountRate: money("10"), IsTaxable: true, TaxRate: money("18")},
		{Name: "b", Quantity: money("1"), UnitPrice: money("287.60")},
	}, "empty", &c)
	require.NoError(t, c.Err())

	totals := Summarize(lines)
	assert.Equal(t, "487.60", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "20.00", totals.DiscountTotal.StringFixed(2))
	assert.Equal(t, "32.40", totals.TaxTotal.StringFixed(2))
	assert.Equal(t, "500.00", totals.GrandTotal.StringFixed(2))

	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal)
	}
	assert.True(t, sum.RoundBank(2).Equal(totals.GrandTotal))
}
