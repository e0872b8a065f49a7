package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/kusina/kiosk/internal/domain/order"
)

// Checkout submits the current cart. A successful submission clears the
// cart; every failure leaves it exactly as it was so the request can be
// corrected and retried.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCheckout(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.checkout.Submit(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("order_id", func(e *jx.Encoder) { e.Str(result.Receipt.OrderID) })
		if result.Receipt.Status != "" {
			e.Field("status", func(e *jx.Encoder) { e.Str(result.Receipt.Status) })
		}
		if req.Tendered != "" {
			e.Field("amount_paid", func(e *jx.Encoder) { e.RawStr(result.Paid.StringFixed(2)) })
			e.Field("change", func(e *jx.Encoder) { e.RawStr(result.Change.StringFixed(2)) })
		}
	})
	writeJSON(w, http.StatusCreated, &e)
}

func decodeCheckout(body io.Reader) (order.CheckoutRequest, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return order.CheckoutRequest{}, errors.Wrap(err, "read body")
	}

	var req order.CheckoutRequest
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "dining_method":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "dining_method")
			}
			mode, err := order.ParseFulfillmentMode(s)
			if err != nil {
				return err
			}
			req.Mode = mode
		case "table_number":
			if d.Next() == jx.Null {
				return d.Null()
			}
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "table_number")
			}
			req.TableNumber = s
		case "amount_paid":
			// Kept as the raw string: money parsing is centralized in the
			// order package, which owns the InvalidTender failure.
			switch d.Next() {
			case jx.Null:
				return d.Null()
			case jx.String:
				s, err := d.Str()
				if err != nil {
					return errors.Wrap(err, "amount_paid")
				}
				req.Tendered = s
			default:
				n, err := d.Num()
				if err != nil {
					return errors.Wrap(err, "amount_paid")
				}
				req.Tendered = n.String()
			}
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return order.CheckoutRequest{}, err
	}

	if req.Mode == "" {
		return order.CheckoutRequest{}, errors.New("dining_method is required")
	}
	return req, nil
}
