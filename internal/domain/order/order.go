package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// FulfillmentMode says how the customer receives the order.
type FulfillmentMode string

const (
	// DineIn orders are served at a table and require a table number.
	DineIn FulfillmentMode = "dine-in"
	// TakeOut orders are packed to go.
	TakeOut FulfillmentMode = "take-out"
)

// ParseFulfillmentMode validates a wire-level fulfillment mode string.
func ParseFulfillmentMode(s string) (FulfillmentMode, error) {
	switch FulfillmentMode(s) {
	case DineIn, TakeOut:
		return FulfillmentMode(s), nil
	}
	return "", errors.Errorf("unknown fulfillment mode %q", s)
}

// Sentinel errors for pre-network submission validation. All of these are
// detected locally and surfaced before any gateway call is attempted.
var (
	ErrEmptyOrder         = errors.New("order has no items")
	ErrMissingTable       = errors.New("dine-in order requires a table number")
	ErrInvalidTender      = errors.New("tendered amount is not a valid non-negative number")
	ErrInsufficientTender = errors.New("tendered amount is less than the order total")
	ErrSubmissionInFlight = errors.New("an order submission is already in flight")
)

// StockConflictError reports that the backend rejected the order because an
// item went out of stock after it was added to the cart. The cart is left
// intact so the customer can adjust and retry.
type StockConflictError struct {
	Message string
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("stock conflict: %s", e.Message)
}

// RejectedError reports a structured backend rejection other than a stock
// conflict. Message carries the backend's error text verbatim.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("order rejected (%d): %s", e.Status, e.Message)
}

// ErrGatewayUnreachable covers transport failures and responses whose shape
// the gateway does not recognize.
var ErrGatewayUnreachable = errors.New("order gateway unreachable")

// Item is one {variation, quantity} tuple of a composed order.
type Item struct {
	VariationID string
	Quantity    int
}

// ComposedOrder is the validated, submission-ready representation of a cart
// plus fulfillment metadata. It is built at submission time and discarded
// once the gateway responds.
type ComposedOrder struct {
	Mode        FulfillmentMode
	TableNumber string
	Items       []Item

	// POS fields, set only for staff-entered cash transactions.
	POS         bool
	AmountPaid  decimal.Decimal
	ChangeGiven decimal.Decimal
}

// Receipt is the backend's confirmation of a created order.
type Receipt struct {
	OrderID   string
	Status    string
	CreatedAt time.Time
}

// Gateway submits composed orders to the backend order service. Failures are
// reported as *StockConflictError, *RejectedError, or ErrGatewayUnreachable.
type Gateway interface {
	Submit(ctx context.Context, o ComposedOrder) (*Receipt, error)
}
