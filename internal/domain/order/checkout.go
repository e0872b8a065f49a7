package order

import (
	"context"
	"sync/atomic"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/kusina/kiosk/internal/domain/cart"
)

// CheckoutRequest holds the fulfillment metadata for a submission. Tendered
// is the raw cash amount for staff POS orders; customer orders leave it
// empty.
type CheckoutRequest struct {
	Mode        FulfillmentMode
	TableNumber string
	Tendered    string
}

// CheckoutResult is returned on a fully successful submission.
type CheckoutResult struct {
	Receipt *Receipt
	// Paid and Change are set only for POS submissions.
	Paid   decimal.Decimal
	Change decimal.Decimal
}

// Checkout gates cart submissions: it validates locally, computes POS change,
// submits through the gateway, and clears the cart only after the backend
// confirms. Any failure, local or remote, leaves the cart exactly as it was
// so the customer can correct and retry.
type Checkout struct {
	carts    *cart.Store
	gateway  Gateway
	inFlight atomic.Bool
}

// NewCheckout creates a Checkout over the given cart store and gateway.
func NewCheckout(carts *cart.Store, gateway Gateway) *Checkout {
	return &Checkout{carts: carts, gateway: gateway}
}

// Submit composes, validates, and sends the current cart as an order.
//
// At most one submission may be in flight at a time; a second concurrent call
// fails with ErrSubmissionInFlight while the cart stays mutable (editing the
// cart during a pending submission is an accepted race — the order that was
// sent is the snapshot taken here).
func (c *Checkout) Submit(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmissionInFlight
	}
	defer c.inFlight.Store(false)

	snap := c.carts.Snapshot()

	composed, err := Compose(snap, req.Mode, req.TableNumber)
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{}
	if req.Tendered != "" {
		change, err := ComputeChange(req.Tendered, snap.TotalAmount)
		if err != nil {
			return nil, err
		}
		paid, _ := ParseTender(req.Tendered)

		composed.POS = true
		composed.AmountPaid = paid
		composed.ChangeGiven = change
		result.Paid = paid
		result.Change = change
	}

	receipt, err := c.gateway.Submit(ctx, composed)
	if err != nil {
		// Cart untouched: the submission either fully succeeds or fully
		// fails, with no partial-order state.
		return nil, err
	}
	result.Receipt = receipt

	if err := c.carts.Clear(); err != nil {
		// The backend accepted the order but the local mirror write failed.
		// Surface both: the receipt is valid, the stale cart is not.
		return result, errors.Wrap(err, "clear cart after submission")
	}

	return result, nil
}
