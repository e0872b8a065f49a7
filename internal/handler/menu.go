package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/kusina/kiosk/internal/domain/catalog"
)

// GetMenu returns the backend catalog: items with their variations, each
// variation annotated with purchasability so the UI can disable sold-out
// choices instead of hiding them.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menu.FetchMenu(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, item := range menu.Items {
					encodeItem(e, item)
				}
			})
		})
		e.Field("categories", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, c := range menu.Categories {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Str(c.ID) })
						e.Field("name", func(e *jx.Encoder) { e.Str(c.Name) })
					})
				}
			})
		})
	})
	writeJSON(w, http.StatusOK, &e)
}

// SelectItem resolves a tap on a menu item. Without a variation_id in the
// body it behaves like the item click: a single-variation item yields the
// payload ready for POST /api/cart/items, several variations yield the list
// of choices with sold-out ones marked. With a variation_id it validates the
// pick. Either way nothing unpurchasable ever comes back addable.
func (h *Handler) SelectItem(w http.ResponseWriter, r *http.Request) {
	menu, err := h.menu.FetchMenu(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	item, ok := findItem(menu.Items, r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	pick, err := decodeSelect(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if pick != "" {
		v, ok := findVariation(item, pick)
		if !ok {
			writeError(w, http.StatusNotFound, "variation not found")
			return
		}
		picked, err := catalog.ResolvePick(v)
		if err != nil {
			respondError(w, r, err)
			return
		}
		var e jx.Encoder
		encodeAddPayload(&e, item, picked)
		writeJSON(w, http.StatusOK, &e)
		return
	}

	sel, err := catalog.ResolveClick(item)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var e jx.Encoder
	if sel.NeedsPicker() {
		e.Obj(func(e *jx.Encoder) {
			e.Field("choices", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, c := range sel.Choices {
						e.Obj(func(e *jx.Encoder) {
							e.Field("id", func(e *jx.Encoder) { e.Str(c.Variation.ID) })
							e.Field("label", func(e *jx.Encoder) { e.Str(c.Variation.Label) })
							e.Field("price", func(e *jx.Encoder) { e.RawStr(c.Variation.Price.StringFixed(2)) })
							e.Field("purchasable", func(e *jx.Encoder) { e.Bool(c.Purchasable) })
						})
					}
				})
			})
		})
	} else {
		encodeAddPayload(&e, item, *sel.Picked)
	}
	writeJSON(w, http.StatusOK, &e)
}

// encodeAddPayload writes a resolved variation in the exact shape that
// POST /api/cart/items accepts.
func encodeAddPayload(e *jx.Encoder, item catalog.Item, v catalog.Variation) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("variation_id", func(e *jx.Encoder) { e.Str(v.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
		e.Field("label", func(e *jx.Encoder) { e.Str(v.Label) })
		e.Field("unit_price", func(e *jx.Encoder) { e.RawStr(v.Price.StringFixed(2)) })
	})
}

func findItem(items []catalog.Item, id string) (catalog.Item, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return catalog.Item{}, false
}

func findVariation(item catalog.Item, id string) (catalog.Variation, bool) {
	for _, v := range item.Variations {
		if v.ID == id {
			return v, true
		}
	}
	return catalog.Variation{}, false
}

// decodeSelect reads the optional pick body. An empty body means an item
// click; a body may carry a variation_id to validate a picker choice.
func decodeSelect(body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}
	if len(data) == 0 {
		return "", nil
	}

	var pick string
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "variation_id" {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "variation_id")
		}
		pick = s
		return nil
	}); err != nil {
		return "", err
	}
	return pick, nil
}

func encodeItem(e *jx.Encoder, item catalog.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(item.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
		e.Field("category", func(e *jx.Encoder) { e.Str(item.Category) })
		e.Field("image", func(e *jx.Encoder) { e.Str(item.Image) })
		e.Field("orderable", func(e *jx.Encoder) { e.Bool(item.Orderable()) })
		e.Field("variations", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, v := range item.Variations {
					e.Obj(func(e *jx.Encoder) {
						e.Field("id", func(e *jx.Encoder) { e.Str(v.ID) })
						e.Field("label", func(e *jx.Encoder) { e.Str(v.Label) })
						e.Field("price", func(e *jx.Encoder) { e.RawStr(v.Price.StringFixed(2)) })
						e.Field("purchasable", func(e *jx.Encoder) { e.Bool(v.Purchasable()) })
					})
				}
			})
		})
	})
}
