package catalog

import (
	"github.com/go-faster/errors"
)

// Sentinel errors for variation selection.
var (
	// ErrItemUnavailable is returned when an item that is not orderable is
	// clicked anyway. The UI should never present such items as clickable.
	ErrItemUnavailable = errors.New("item unavailable")
	// ErrVariationUnavailable is returned when a picked variation fails the
	// purchasability check.
	ErrVariationUnavailable = errors.New("variation unavailable")
)

// Choice annotates a variation with its purchasability so a picker can render
// sold-out options disabled rather than hiding them.
type Choice struct {
	Variation   Variation
	Purchasable bool
}

// Selection is the outcome of resolving a click on a menu item. Exactly one
// of Picked or Choices is set: Picked when the item has a single variation,
// Choices when the caller must disambiguate.
type Selection struct {
	Picked  *Variation
	Choices []Choice
}

// NeedsPicker reports whether the caller must present a variation picker.
func (s Selection) NeedsPicker() bool {
	return s.Picked == nil
}

// ResolveClick translates a tap on a menu item into either a concrete
// variation to add or the list of choices to disambiguate.
func ResolveClick(item Item) (Selection, error) {
	if !item.Orderable() {
		return Selection{}, ErrItemUnavailable
	}

	if len(item.Variations) == 1 {
		v := item.Variations[0]
		if !v.Purchasable() {
			return Selection{}, ErrVariationUnavailable
		}
		return Selection{Picked: &v}, nil
	}

	choices := make([]Choice, len(item.Variations))
	for i, v := range item.Variations {
		choices[i] = Choice{Variation: v, Purchasable: v.Purchasable()}
	}
	return Selection{Choices: choices}, nil
}

// ResolvePick re-validates a variation chosen from a picker. The picker must
// already disable unpurchasable entries; this is the authoritative check.
func ResolvePick(v Variation) (Variation, error) {
	if !v.Purchasable() {
		return Variation{}, ErrVariationUnavailable
	}
	return v, nil
}
