package order

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kusina/kiosk/internal/domain/cart"
)

// Compose validates a cart snapshot against the fulfillment metadata and
// yields the submission tuples. It fails with ErrEmptyOrder on an empty cart
// and ErrMissingTable for a dine-in order without a table number. Validation
// never mutates the cart.
func Compose(snap cart.Snapshot, mode FulfillmentMode, tableNumber string) (ComposedOrder, error) {
	if len(snap.Lines) == 0 {
		return ComposedOrder{}, ErrEmptyOrder
	}

	tableNumber = strings.TrimSpace(tableNumber)
	if mode == DineIn && tableNumber == "" {
		return ComposedOrder{}, ErrMissingTable
	}
	if mode == TakeOut {
		// Take-out orders carry no table; drop whatever the UI sent.
		tableNumber = ""
	}

	items := make([]Item, len(snap.Lines))
	for i, l := range snap.Lines {
		items[i] = Item{VariationID: l.VariationID, Quantity: l.Quantity}
	}

	return ComposedOrder{Mode: mode, TableNumber: tableNumber, Items: items}, nil
}

// ParseTender is the single boundary where tendered cash amounts enter the
// system. Blank, malformed, and negative inputs fail with ErrInvalidTender;
// nothing downstream ever re-parses money from strings.
func ParseTender(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, ErrInvalidTender
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidTender
	}
	if d.IsNegative() {
		return decimal.Decimal{}, ErrInvalidTender
	}
	return d, nil
}

// ComputeChange returns the change due for a cash payment, rounded to two
// fraction digits. A tender below the total fails with ErrInsufficientTender
// rather than clamping; a tender exactly equal to the total yields zero.
func ComputeChange(tendered string, orderTotal decimal.Decimal) (decimal.Decimal, error) {
	amount, err := ParseTender(tendered)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if amount.LessThan(orderTotal) {
		return decimal.Decimal{}, ErrInsufficientTender
	}
	return amount.Sub(orderTotal).Round(2), nil
}
