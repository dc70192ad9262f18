package pricing

import (
	"github.com/feraszen/keytop-fresh/models"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is applied when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.15")

// Calculator derives order totals from a cart snapshot.
type Calculator struct {
	taxRate decimal.Decimal
}

// NewCalculator returns a Calculator applying rate to the subtotal.
func NewCalculator(rate decimal.Decimal) Calculator {
	return Calculator{taxRate: rate}
}

// TaxRate returns the configured rate.
func (c Calculator) TaxRate() decimal.Decimal {
	return c.taxRate
}

// Summarize is a pure function of items. Amounts are rounded to cents,
// half away from zero.
func (c Calculator) Summarize(items []models.CartItem) models.Summary {
	totalItems := 0
	subtotal := decimal.Zero
	for _, item := range items {
		totalItems += item.Quantity
		subtotal = subtotal.Add(item.LineTotal().Decimal)
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(c.taxRate).Round(2)
	total := subtotal.Add(tax).Round(2)

	return models.Summary{
		TotalItems: totalItems,
		Subtotal:   models.NewMoney(subtotal),
		Tax:        models.NewMoney(tax),
		Total:      models.NewMoney(total),
	}
}
