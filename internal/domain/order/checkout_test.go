package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusina/kiosk/internal/domain/cart"
	"github.com/kusina/kiosk/internal/storage/memory"
)

// --- Mock gateway ---

type mockGateway struct {
	receipt *Receipt
	err     error
	release chan struct{} // when set, Submit blocks until closed

	mu   sync.Mutex
	last *ComposedOrder
}

func (m *mockGateway) Submit(_ context.Context, o ComposedOrder) (*Receipt, error) {
	m.mu.Lock()
	m.last = &o
	m.mu.Unlock()
	if m.release != nil {
		<-m.release
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

func (m *mockGateway) lastOrder() *ComposedOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// --- Helpers ---

func newCart(t *testing.T, lines ...cart.Line) *cart.Store {
	t.Helper()
	s := cart.NewStore(memory.New())
	for _, l := range lines {
		require.NoError(t, s.Add(l.VariationID, l.Name, l.Label, l.UnitPrice, l.Quantity))
	}
	return s
}

// --- Tests ---

func TestCheckout_SuccessClearsCart(t *testing.T) {
	carts := newCart(t, line("v1", 2, "100.00"), line("v2", 1, "50.00"))
	gw := &mockGateway{receipt: &Receipt{OrderID: "ord-1", Status: "pending"}}
	co := NewCheckout(carts, gw)

	result, err := co.Submit(context.Background(), CheckoutRequest{Mode: TakeOut})
	require.NoError(t, err)
	assert.Equal(t, "ord-1", result.Receipt.OrderID)

	assert.Empty(t, carts.Snapshot().Lines)

	require.NotNil(t, gw.lastOrder())
	assert.Equal(t, TakeOut, gw.lastOrder().Mode)
	assert.Equal(t, []Item{
		{VariationID: "v1", Quantity: 2},
		{VariationID: "v2", Quantity: 1},
	}, gw.lastOrder().Items)
}

func TestCheckout_EmptyCart(t *testing.T) {
	co := NewCheckout(newCart(t), &mockGateway{})

	_, err := co.Submit(context.Background(), CheckoutRequest{Mode: TakeOut})
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCheckout_MissingTable(t *testing.T) {
	carts := newCart(t, line("v1", 1, "100.00"))
	gw := &mockGateway{}
	co := NewCheckout(carts, gw)

	_, err := co.Submit(context.Background(), CheckoutRequest{Mode: DineIn})
	require.ErrorIs(t, err, ErrMissingTable)

	// Validation failures never reach the gateway and never touch the cart.
	assert.Nil(t, gw.lastOrder())
	assert.Len(t, carts.Snapshot().Lines, 1)
}

func TestCheckout_StockConflictLeavesCartIntact(t *testing.T) {
	carts := newCart(t, line("v1", 2, "100.00"))
	before := carts.Snapshot()
	gw := &mockGateway{err: &StockConflictError{Message: "not enough stock for Sisig"}}
	co := NewCheckout(carts, gw)

	_, err := co.Submit(context.Background(), CheckoutRequest{Mode: TakeOut})

	var scErr *StockConflictError
	require.ErrorAs(t, err, &scErr)
	assert.Equal(t, before.Lines, carts.Snapshot().Lines)
}

func TestCheckout_GatewayErrorsLeaveCartIntact(t *testing.T) {
	for _, gwErr := range []error{
		&RejectedError{Status: 400, Message: "invalid order"},
		ErrGatewayUnreachable,
	} {
		carts := newCart(t, line("v1", 1, "100.00"))
		co := NewCheckout(carts, &mockGateway{err: gwErr})

		_, err := co.Submit(context.Background(), CheckoutRequest{Mode: TakeOut})
		require.Error(t, err)
		assert.Len(t, carts.Snapshot().Lines, 1)
	}
}

func TestCheckout_POSComputesChange(t *testing.T) {
	carts := newCart(t, line("v1", 2, "100.00"), line("v2", 1, "50.00"))
	gw := &mockGateway{receipt: &Receipt{OrderID: "ord-2"}}
	co := NewCheckout(carts, gw)

	result, err := co.Submit(context.Background(), CheckoutRequest{
		Mode:        DineIn,
		TableNumber: "4",
		Tendered:    "300.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "50.00", result.Change.StringFixed(2))
	assert.Equal(t, "300.00", result.Paid.StringFixed(2))

	require.NotNil(t, gw.lastOrder())
	assert.True(t, gw.lastOrder().POS)
	assert.Equal(t, "4", gw.lastOrder().TableNumber)
	assert.True(t, decimal.RequireFromString("300.00").Equal(gw.lastOrder().AmountPaid))
	assert.True(t, decimal.RequireFromString("50.00").Equal(gw.lastOrder().ChangeGiven))
}

func TestCheckout_POSInsufficientTender(t *testing.T) {
	carts := newCart(t, line("v1", 1, "250.00"))
	gw := &mockGateway{}
	co := NewCheckout(carts, gw)

	_, err := co.Submit(context.Background(), CheckoutRequest{
		Mode:     TakeOut,
		Tendered: "200.00",
	})
	require.ErrorIs(t, err, ErrInsufficientTender)
	assert.Nil(t, gw.lastOrder())
	assert.Len(t, carts.Snapshot().Lines, 1)
}

func TestCheckout_POSInvalidTender(t *testing.T) {
	carts := newCart(t, line("v1", 1, "250.00"))
	co := NewCheckout(carts, &mockGateway{})

	_, err := co.Submit(context.Background(), CheckoutRequest{
		Mode:     TakeOut,
		Tendered: "two fifty",
	})
	require.ErrorIs(t, err, ErrInvalidTender)
}

func TestCheckout_SecondSubmissionRejectedWhileInFlight(t *testing.T) {
	carts := newCart(t, line("v1", 1, "100.00"))
	gw := &mockGateway{
		receipt: &Receipt{OrderID: "ord-3"},
		release: make(chan struct{}),
	}
	co := NewCheckout(carts, gw)

	firstDone := make(chan error, 1)
	go func() {
		_, err := co.Submit(context.Background(), CheckoutRequest{Mode: TakeOut})
		firstDone <- err
	}()

	// Wait for the first submission to reach the gateway.
	require.Eventually(t, func() bool { return gw.lastOrder() != nil }, time.Second, time.Millisecond)

	_, err := co.Submit(context.Background(), CheckoutRequest{Mode: TakeOut})
	require.ErrorIs(t, err, ErrSubmissionInFlight)

	close(gw.release)
	require.NoError(t, <-firstDone)
	assert.Empty(t, carts.Snapshot().Lines)
}
