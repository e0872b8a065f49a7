package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/kusina/kiosk/internal/domain/order"
)

// Backend order-creation endpoints. Customer and staff POS orders are
// separate surfaces on the backend; the POS one additionally records the
// cash payment.
const (
	createOrderPath    = "/api/orders/create/"
	createPOSOrderPath = "/api/orders/admin/create-pos/"
)

var _ order.Gateway = (*Client)(nil)

// Submit sends a composed order to the backend. The cart is never touched
// here: on any failure the caller keeps its state for retry.
func (c *Client) Submit(ctx context.Context, o order.ComposedOrder) (*order.Receipt, error) {
	path := createOrderPath
	if o.POS {
		path = createPOSOrderPath
	}

	payload := encodeOrder(o)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), jsonBody(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}

	status, body, err := c.do(req)
	if err != nil {
		return nil, errors.Wrap(order.ErrGatewayUnreachable, err.Error())
	}

	if status >= 200 && status < 300 {
		receipt, err := decodeReceipt(body)
		if err != nil {
			return nil, errors.Wrap(order.ErrGatewayUnreachable, "unrecognized success body")
		}
		return receipt, nil
	}

	return nil, mapOrderFailure(status, body)
}

// encodeOrder builds the order-creation JSON payload.
func encodeOrder(o order.ComposedOrder) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("dining_method", func(e *jx.Encoder) {
			e.Str(string(o.Mode))
		})
		e.Field("table_number", func(e *jx.Encoder) {
			if o.TableNumber == "" {
				e.Null()
			} else {
				e.Str(o.TableNumber)
			}
		})
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, it := range o.Items {
					e.Obj(func(e *jx.Encoder) {
						e.Field("variation_id", func(e *jx.Encoder) {
							e.Str(it.VariationID)
						})
						e.Field("quantity", func(e *jx.Encoder) {
							e.Int(it.Quantity)
						})
					})
				}
			})
		})
		if o.POS {
			e.Field("amount_paid", func(e *jx.Encoder) {
				e.RawStr(o.AmountPaid.String())
			})
			e.Field("change_given", func(e *jx.Encoder) {
				e.RawStr(o.ChangeGiven.String())
			})
		}
	})
	return e.Bytes()
}

// decodeReceipt parses a created-order response. Unknown fields are skipped.
func decodeReceipt(body []byte) (*order.Receipt, error) {
	r := &order.Receipt{}
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := decodeStringOrNumber(d)
			if err != nil {
				return errors.Wrap(err, "id")
			}
			r.OrderID = id
			return nil
		case "status":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "status")
			}
			r.Status = s
			return nil
		case "created_at":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "created_at")
			}
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				r.CreatedAt = t
			}
			return nil
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, err
	}
	if r.OrderID == "" {
		return nil, errors.New("missing order id")
	}
	return r, nil
}

// mapOrderFailure converts a non-2xx response to a domain error. A parsed
// envelope whose message mentions insufficient stock becomes a stock
// conflict; other parsed envelopes carry the backend message verbatim.
// Anything unparseable collapses to ErrGatewayUnreachable rather than being
// guessed at.
func mapOrderFailure(status int, body []byte) error {
	msg, ok := decodeErrorEnvelope(body)
	if !ok {
		return errors.Wrapf(order.ErrGatewayUnreachable, "status %d", status)
	}

	if status >= 400 && status < 500 && strings.Contains(strings.ToLower(msg), "not enough stock") {
		return &order.StockConflictError{Message: msg}
	}
	return &order.RejectedError{Status: status, Message: msg}
}

// decodeErrorEnvelope extracts the message from the backend's structured
// error shape {"error": "..."}.
func decodeErrorEnvelope(body []byte) (string, bool) {
	var msg string
	d := jx.DecodeBytes(body)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "error" {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return err
		}
		msg = s
		return nil
	}); err != nil {
		return "", false
	}
	return msg, msg != ""
}

// decodeStringOrNumber reads an identifier that the backend serializes as
// either a JSON string or a number.
func decodeStringOrNumber(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	default:
		return "", errors.Errorf("unexpected token %q", d.Next())
	}
}
