// Package pricing computes every displayed price from its inputs. Totals are
// never cached independently of the base price, offer, quantity and options
// they derive from.
package pricing

import (
	"time"

	"mataam/internal/model"
)

// UnitPrice returns the per-unit price after applying the offer, if the offer
// is enabled and inside its time window. The result never goes below zero.
func UnitPrice(base float64, offer *model.ItemOffer, now time.Time) float64 {
	if !offer.ActiveAt(now) {
		return base
	}

	var discounted float64
	switch offer.Kind {
	case model.DiscountPercentage:
		discounted = base * (1 - offer.Amount/100)
	case model.DiscountFixed:
		discounted = base - offer.Amount
	default:
		return base
	}

	if discounted < 0 {
		return 0
	}
	return discounted
}

// OptionsTotal is the cost of the selected add-ons across the whole line.
func OptionsTotal(options []model.SelectedOption, quantity int) float64 {
	if quantity < 1 {
		return 0
	}
	var perUnit float64
	for _, opt := range options {
		perUnit += opt.Price
	}
	return perUnit * float64(quantity)
}

// LineTotal combines unit price, quantity, options and an optional per-line
// discount, clamped at zero.
func LineTotal(unitPrice float64, quantity int, optionsTotal, lineDiscount float64) float64 {
	total := unitPrice*float64(quantity) + optionsTotal - lineDiscount
	if total < 0 {
		return 0
	}
	return total
}

// Recalculate fills the derived price fields of a cart item in place.
func Recalculate(item *model.CartItem, now time.Time) {
	item.UnitPrice = UnitPrice(item.BasePrice, item.Offer, now)
	item.OptionsTotal = OptionsTotal(item.Options, item.Quantity)
	item.LineTotal = LineTotal(item.UnitPrice, item.Quantity, item.OptionsTotal, 0)
}

// RecalculateLine computes an order line's total from its frozen snapshot
// fields. The per-line discount was resolved at order time and is applied as
// an amount.
func RecalculateLine(line *model.OrderLine) {
	optionsTotal := OptionsTotal(line.Options, line.Quantity)
	line.LineTotal = LineTotal(line.BasePrice, line.Quantity, optionsTotal, line.Discount)
}

// Totals holds the aggregate amounts of an order.
type Totals struct {
	WithoutFee float64
	Discount   float64
	Fee        float64
	WithFee    float64
}

// OrderTotals aggregates line snapshots and the delivery fee. WithoutFee is
// the gross sum before discounts; WithFee subtracts the accumulated per-line
// discounts and adds the fee, clamped at zero.
func OrderTotals(lines []model.OrderLine, deliveryFee float64) Totals {
	var gross, discount float64
	for i := range lines {
		optionsTotal := OptionsTotal(lines[i].Options, lines[i].Quantity)
		gross += lines[i].BasePrice*float64(lines[i].Quantity) + optionsTotal
		discount += lines[i].Discount
	}

	withFee := gross - discount + deliveryFee
	if withFee < 0 {
		withFee = 0
	}

	return Totals{
		WithoutFee: gross,
		Discount:   discount,
		Fee:        deliveryFee,
		WithFee:    withFee,
	}
}
