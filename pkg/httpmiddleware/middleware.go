// Package httpmiddleware holds the plain net/http middleware used by the
// kiosk server: panic recovery, request IDs, CORS for the local UI, a
// sliding window rate limit, and request logging.
package httpmiddleware

import "net/http"

// Middleware wraps an http.Handler with additional behaviour.
type Middleware func(http.Handler) http.Handler

// Wrap applies middlewares to h so that the first listed middleware is the
// outermost one, matching the order they are written at the call site.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
