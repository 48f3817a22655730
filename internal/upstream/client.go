// Package upstream issues calls to the CoinStats REST API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the upstream origin compiled into the binary.
const DefaultBaseURL = "https://openapiv1.coinstats.app"

// APIKeyHeader carries the upstream credential.
const APIKeyHeader = "X-API-KEY"

// Client forwards requests to the upstream API via direct HTTP.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client

	// Pacer, when set, delays each call until a token is available.
	// It never causes a second attempt.
	Pacer *rate.Limiter
}

// Result is the raw upstream response.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// TransportError reports a network-level fault: connection refused, DNS
// failure, timeout, or a body that could not be read.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	if e == nil || e.Err == nil {
		return "upstream transport error"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewClient returns a client with defaults applied.
func NewClient(baseURL, apiKey string) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = DefaultBaseURL
	}

	return &Client{
		BaseURL: strings.TrimRight(url, "/"),
		APIKey:  strings.TrimSpace(apiKey),
	}
}

// WithPacing enables outbound pacing at rps calls per second. A non-positive
// rps disables pacing.
func (c *Client) WithPacing(rps float64) *Client {
	if rps <= 0 {
		c.Pacer = nil
		return c
	}
	c.Pacer = rate.NewLimiter(rate.Limit(rps), 1)
	return c
}

// URL returns the absolute upstream URL for an endpoint path.
func (c *Client) URL(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Call performs exactly one upstream request. Any HTTP status is returned as a
// Result; network faults are returned as *TransportError.
func (c *Client) Call(ctx context.Context, req Request) (*Result, error) {
	if c == nil {
		return nil, fmt.Errorf("upstream client not configured")
	}

	target := c.URL(req.Path())
	var body io.Reader
	var encodedParams []byte

	params := req.Params()
	if req.HasBody() {
		payload, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		encodedParams = payload
		body = bytes.NewReader(payload)
	} else if query := params.Query(); query != "" {
		target += "?" + query
		encodedParams, _ = json.Marshal(params)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("accept", "application/json")
	httpReq.Header.Set(APIKeyHeader, c.APIKey)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	entry := TraceEntry{
		Method:   req.Method(),
		Endpoint: req.Path(),
		Params:   encodedParams,
	}

	if c.Pacer != nil {
		if err := c.Pacer.Wait(ctx); err != nil {
			return nil, c.transportFault(entry, start, req.Method(), target, err)
		}
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, c.transportFault(entry, start, req.Method(), target, err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportFault(entry, start, req.Method(), target, fmt.Errorf("read response: %w", err))
	}

	entry.StatusCode = resp.StatusCode
	entry.BodyBytes = len(respBody)
	entry.DurationMs = time.Since(start).Milliseconds()
	Trace(entry)

	return &Result{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       respBody,
	}, nil
}

func (c *Client) transportFault(entry TraceEntry, start time.Time, method, target string, err error) error {
	entry.Error = err.Error()
	entry.DurationMs = time.Since(start).Milliseconds()
	Trace(entry)
	return &TransportError{Method: method, URL: target, Err: err}
}
