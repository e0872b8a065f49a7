package catalog

import (
	"github.com/shopspring/decimal"
)

// StockUnlimited marks a variation whose stock is not tracked by the backend.
const StockUnlimited = -1

// Category groups menu items on the storefront.
type Category struct {
	ID   string
	Name string
}

// Item represents a menu item as served by the backend catalog. Items are
// read-only on this side; the backend owns availability and stock.
type Item struct {
	ID              string
	Name            string
	Available       bool
	FullyOutOfStock bool
	Variations      []Variation
	Category        string
	Image           string
}

// Variation is a purchasable size/price/stock variant of an Item.
type Variation struct {
	ID        string
	Label     string
	Price     decimal.Decimal
	Stock     int
	Available bool
}

// Purchasable reports whether this variation can currently be added to an
// order: it must be available and either untracked or in stock.
func (v Variation) Purchasable() bool {
	return v.Available && (v.Stock == StockUnlimited || v.Stock > 0)
}

// Orderable reports whether the item as a whole can be interacted with.
// Unavailable and fully out-of-stock items must not be presented as clickable.
func (i Item) Orderable() bool {
	return i.Available && !i.FullyOutOfStock
}
