package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"merch-order-desk/models"
	"merch-order-desk/utils"
)

// DefaultServiceFeeRate is the surcharge applied when the customer covers processing
var DefaultServiceFeeRate = decimal.RequireFromString("0.02")

// Engine prices order lines and aggregates order totals
type Engine struct {
	feeRate decimal.Decimal
}

// NewEngine creates a pricing engine with the given service fee rate (0 <= rate < 1)
func NewEngine(feeRate decimal.Decimal) (*Engine, error) {
	if feeRate.IsNegative() || feeRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("invalid service fee rate %s", feeRate)
	}
	return &Engine{feeRate: feeRate}, nil
}

// FeeRate returns the configured service fee rate
func (e *Engine) FeeRate() decimal.Decimal {
	return e.feeRate
}

// PriceLine computes unit price and line total for a product, size, quantity and
// personalization toggle. ok is false when no product or no known size is selected.
// The toggle alone decides the personalization fee; entered text never does.
func PriceLine(product *models.Product, size string, qty int, personalize bool) (unit, total decimal.Decimal, ok bool) {
	if product == nil || size == "" {
		return decimal.Zero, decimal.Zero, false
	}
	base, found := product.PriceFor(size)
	if !found {
		return decimal.Zero, decimal.Zero, false
	}

	unit = decimal.NewFromFloat(base)
	if personalize && product.AllowsName {
		unit = unit.Add(decimal.NewFromFloat(product.NamePrice))
	}
	if qty < 0 {
		qty = 0
	}
	total = utils.Round2(unit.Mul(decimal.NewFromInt(int64(qty))))
	return unit, total, true
}

// RecomputeLine returns the line with UnitPrice, LineTotal and Priced brought in
// line with its current selections
func (e *Engine) RecomputeLine(catalog *Catalog, line models.OrderLine) models.OrderLine {
	var product *models.Product
	if catalog != nil {
		product, _ = catalog.Product(line.SKU)
	}

	unit, total, ok := PriceLine(product, line.Size, line.Qty, line.Personalize)
	line.Priced = ok
	line.UnitPrice = utils.ToFloat(unit)
	line.LineTotal = utils.ToFloat(total)
	return line
}

// Included reports whether a line counts toward totals and submission
func Included(line models.OrderLine) bool {
	return line.Priced && line.Qty > 0
}

// Totals aggregates the lines from scratch
func (e *Engine) Totals(lines []models.OrderLine, coverFee bool) models.OrderTotals {
	subtotal := decimal.Zero
	for _, line := range lines {
		if !Included(line) {
			continue
		}
		subtotal = subtotal.Add(decimal.NewFromFloat(line.LineTotal))
	}
	subtotal = utils.Round2(subtotal)

	fee := decimal.Zero
	if coverFee {
		fee = utils.Round2(subtotal.Mul(e.feeRate))
	}

	return models.OrderTotals{
		Subtotal:   utils.ToFloat(subtotal),
		ServiceFee: utils.ToFloat(fee),
		GrandTotal: utils.ToFloat(subtotal.Add(fee)),
	}
}

// OnLineChanged recomputes one line and then the order totals
func (e *Engine) OnLineChanged(catalog *Catalog, form *models.OrderForm, index int) error {
	if index < 0 || index >= len(form.Lines) {
		return fmt.Errorf("line %d out of range (order has %d lines)", index, len(form.Lines))
	}
	form.Lines[index] = e.RecomputeLine(catalog, form.Lines[index])
	form.Totals = e.Totals(form.Lines, form.CoverFee)
	return nil
}

// AddLine appends a line and recomputes it along with the totals
func (e *Engine) AddLine(catalog *Catalog, form *models.OrderForm, line models.OrderLine) {
	form.Lines = append(form.Lines, e.RecomputeLine(catalog, line))
	form.Totals = e.Totals(form.Lines, form.CoverFee)
}

// RemoveLine drops a line and recomputes the totals
func (e *Engine) RemoveLine(form *models.OrderForm, index int) error {
	if index < 0 || index >= len(form.Lines) {
		return fmt.Errorf("line %d out of range (order has %d lines)", index, len(form.Lines))
	}
	form.Lines = append(form.Lines[:index], form.Lines[index+1:]...)
	form.Totals = e.Totals(form.Lines, form.CoverFee)
	return nil
}

// SetCoverFee flips the service fee toggle and recomputes the totals
func (e *Engine) SetCoverFee(form *models.OrderForm, coverFee bool) {
	form.CoverFee = coverFee
	form.Totals = e.Totals(form.Lines, form.CoverFee)
}

// RecomputeAll reprices every line, used after a catalog reload or on a fresh request
func (e *Engine) RecomputeAll(catalog *Catalog, form *models.OrderForm) {
	for i := range form.Lines {
		form.Lines[i] = e.RecomputeLine(catalog, form.Lines[i])
	}
	form.Totals = e.Totals(form.Lines, form.CoverFee)
}
