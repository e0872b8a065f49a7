package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// addItemRequest is the body of POST /api/cart/items.
type addItemRequest struct {
	VariationID string
	Name        string
	Label       string
	UnitPrice   decimal.Decimal
	Quantity    int
}

// GetCart returns the current cart snapshot.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	var e jx.Encoder
	encodeSnapshot(&e, h.carts.Snapshot())
	writeJSON(w, http.StatusOK, &e)
}

// AddItem adds units of a variation to the cart. Quantities are integers
// only; fractional values are rejected here at the input boundary.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAddItem(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.carts.Add(req.VariationID, req.Name, req.Label, req.UnitPrice, req.Quantity); err != nil {
		respondError(w, r, err)
		return
	}

	var e jx.Encoder
	encodeSnapshot(&e, h.carts.Snapshot())
	writeJSON(w, http.StatusOK, &e)
}

// SetQuantity overwrites the quantity of one cart line. Zero or negative
// drops the line.
func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	quantity, err := decodeQuantity(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.carts.SetQuantity(r.PathValue("id"), quantity); err != nil {
		respondError(w, r, err)
		return
	}

	var e jx.Encoder
	encodeSnapshot(&e, h.carts.Snapshot())
	writeJSON(w, http.StatusOK, &e)
}

// DecrementItem reduces a line by one unit, removing it at zero.
func (h *Handler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Decrement(r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}

	var e jx.Encoder
	encodeSnapshot(&e, h.carts.Snapshot())
	writeJSON(w, http.StatusOK, &e)
}

// RemoveItem deletes a line regardless of quantity. Removing an absent line
// succeeds; the operation is idempotent.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Remove(r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}

	var e jx.Encoder
	encodeSnapshot(&e, h.carts.Snapshot())
	writeJSON(w, http.StatusOK, &e)
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(); err != nil {
		respondError(w, r, err)
		return
	}

	var e jx.Encoder
	encodeSnapshot(&e, h.carts.Snapshot())
	writeJSON(w, http.StatusOK, &e)
}

func decodeAddItem(body io.Reader) (addItemRequest, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return addItemRequest{}, errors.Wrap(err, "read body")
	}

	req := addItemRequest{Quantity: 1}
	priceSet := false

	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "variation_id":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "variation_id")
			}
			req.VariationID = s
		case "name":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "name")
			}
			req.Name = s
		case "label":
			s, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "label")
			}
			req.Label = s
		case "unit_price":
			raw, err := d.Num()
			if err != nil {
				return errors.Wrap(err, "unit_price")
			}
			p, err := decimal.NewFromString(raw.String())
			if err != nil {
				return errors.Wrap(err, "unit_price")
			}
			if p.IsNegative() {
				return errors.New("unit_price must not be negative")
			}
			req.UnitPrice = p
			priceSet = true
		case "quantity":
			n, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "quantity must be an integer")
			}
			req.Quantity = n
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return addItemRequest{}, err
	}

	if req.VariationID == "" {
		return addItemRequest{}, errors.New("variation_id is required")
	}
	if !priceSet {
		return addItemRequest{}, errors.New("unit_price is required")
	}
	if req.Quantity <= 0 {
		return addItemRequest{}, errors.New("quantity must be positive")
	}
	return req, nil
}

func decodeQuantity(body io.Reader) (int, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return 0, errors.Wrap(err, "read body")
	}

	quantity := 0
	seen := false
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		n, err := d.Int()
		if err != nil {
			return errors.Wrap(err, "quantity must be an integer")
		}
		quantity = n
		seen = true
		return nil
	}); err != nil {
		return 0, err
	}
	if !seen {
		return 0, errors.New("quantity is required")
	}
	return quantity, nil
}
