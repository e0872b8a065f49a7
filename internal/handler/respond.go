package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/kusina/kiosk/internal/domain/cart"
	"github.com/kusina/kiosk/internal/domain/catalog"
	"github.com/kusina/kiosk/internal/domain/order"
)

// writeJSON sends an encoded body with the given status.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError sends the error envelope used across the kiosk API.
func writeError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(status) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
	})
	writeJSON(w, status, &e)
}

// respondError maps domain errors to HTTP statuses. Validation failures are
// 400s, an insufficient cash tender is 402, conflicts (stale stock, a
// submission already pending) are 409, a structured backend rejection is 422
// with the backend message verbatim, and an unreachable or unrecognizable
// backend is 502.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrMissingTable),
		errors.Is(err, order.ErrInvalidTender),
		errors.Is(err, catalog.ErrItemUnavailable),
		errors.Is(err, catalog.ErrVariationUnavailable):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, order.ErrInsufficientTender):
		writeError(w, http.StatusPaymentRequired, err.Error())
		return
	case errors.Is(err, order.ErrSubmissionInFlight):
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	var scErr *order.StockConflictError
	if errors.As(err, &scErr) {
		writeError(w, http.StatusConflict, scErr.Message)
		return
	}

	var rejErr *order.RejectedError
	if errors.As(err, &rejErr) {
		writeError(w, http.StatusUnprocessableEntity, rejErr.Message)
		return
	}

	if errors.Is(err, order.ErrGatewayUnreachable) {
		writeError(w, http.StatusBadGateway, "order service unavailable, please try again")
		return
	}

	zctx.From(r.Context()).Error("unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

// encodeSnapshot writes a cart snapshot with its aggregates.
func encodeSnapshot(e *jx.Encoder, snap cart.Snapshot) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, l := range snap.Lines {
					encodeLine(e, l)
				}
			})
		})
		e.Field("totalItems", func(e *jx.Encoder) { e.Int(snap.TotalItems) })
		e.Field("totalAmount", func(e *jx.Encoder) { e.RawStr(snap.TotalAmount.StringFixed(2)) })
	})
}

func encodeLine(e *jx.Encoder, l cart.Line) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("variation_id", func(e *jx.Encoder) { e.Str(l.VariationID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(l.Name) })
		e.Field("label", func(e *jx.Encoder) { e.Str(l.Label) })
		e.Field("unit_price", func(e *jx.Encoder) { e.RawStr(l.UnitPrice.StringFixed(2)) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(l.Quantity) })
		e.Field("line_total", func(e *jx.Encoder) { e.RawStr(l.LineTotal.StringFixed(2)) })
	})
}
