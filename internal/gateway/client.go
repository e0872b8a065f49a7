// Package gateway is the typed HTTP client for the external restaurant
// backend: catalog reads and order creation. It owns the wire format and the
// mapping from backend error envelopes to the domain error taxonomy.
package gateway

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 15 * time.Second

// Config holds the gateway client configuration.
type Config struct {
	// BaseURL is the backend root, e.g. "https://api.example.com".
	BaseURL string
	// Token, when set, is sent as a Bearer Authorization header. The token
	// itself is issued and stored by an external auth flow.
	Token string
	// HTTPClient overrides the default instrumented client. Mainly for tests.
	HTTPClient *http.Client
}

// Client talks to the backend order and catalog services.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a Client. Unless overridden, requests go through an
// OpenTelemetry-instrumented transport with a bounded timeout.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   defaultTimeout,
		}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    httpClient,
	}
}

// do performs one request and returns the status code and body. Transport
// failures come back as wrapped errors; status interpretation is up to the
// caller.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "read response body")
	}
	return resp.StatusCode, body, nil
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func jsonBody(data []byte) io.Reader {
	return bytes.NewReader(data)
}
