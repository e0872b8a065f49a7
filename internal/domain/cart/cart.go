package cart

import (
	"github.com/shopspring/decimal"
)

// Line is a single cart entry. Lines are keyed by VariationID: a cart holds
// at most one line per variation. UnitPrice is captured when the line is
// created and never refreshed by later adds, so a price change upstream
// cannot silently reprice a line the customer already saw.
type Line struct {
	VariationID string          `json:"variation_id"`
	Name        string          `json:"name"`
	Label       string          `json:"label"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Snapshot is an immutable copy of the cart contents plus derived aggregates.
// TotalItems is the sum of line quantities, TotalAmount the sum of line
// totals; both are recomputed on every mutation, never cached independently.
type Snapshot struct {
	Lines       []Line          `json:"items"`
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// lineTotal computes unit price times quantity.
func lineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// aggregate recomputes the derived totals for a set of lines.
func aggregate(lines []Line) (totalItems int, totalAmount decimal.Decimal) {
	totalAmount = decimal.Zero
	for _, l := range lines {
		totalItems += l.Quantity
		totalAmount = totalAmount.Add(l.LineTotal)
	}
	return totalItems, totalAmount
}
