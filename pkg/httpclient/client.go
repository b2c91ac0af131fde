// Package httpclient is the HTTP layer of the weather API wrapper. It dispatches
// GET/POST/PUT/DELETE calls through an injected Transport, maps non-2xx
// statuses to the errors of package apierr and decodes JSON bodies.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Seeyong/pyowm/pkg/apierr"
)

const (
	// APIKeyParam is the query parameter carrying the static API key.
	APIKeyParam = "appid"

	// RequestIDHeader correlates a call with its log entries.
	RequestIDHeader = "X-Request-Id"

	defaultTimeout = 10 * time.Second
)

// Request describes a single API call.
type Request struct {
	Method  string
	URI     string
	Params  map[string]string
	Headers map[string]string
	Data    any
}

// Client issues API calls through a Transport and classifies their outcome.
// It holds no mutable state after construction.
type Client struct {
	transport Transport
	apiKey    string
	headers   map[string]string
	log       Logger
	metrics   *Metrics
	requestID func() string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key as the appid query parameter on every call that does
// not set one itself.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

// WithHeaders sets default headers. Per-call headers take precedence.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			key := strings.TrimSpace(k)
			if key == "" {
				continue
			}
			c.headers[http.CanonicalHeaderKey(key)] = v
		}
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.headers["User-Agent"] = ua
		}
	}
}

// WithLogger sets the logger used to trace calls.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = ensureLogger(log) }
}

// WithMetrics records every call in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient builds a Client on top of transport. A nil transport falls back to
// a resty transport with a 10s timeout.
func NewClient(transport Transport, opts ...Option) *Client {
	if transport == nil {
		transport = NewRestyTransport(defaultTimeout, nil)
	}
	c := &Client{
		transport: transport,
		headers:   make(map[string]string),
		log:       noopLogger{},
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// GetJSON performs a GET and returns the status with the decoded JSON body.
func (c *Client) GetJSON(ctx context.Context, uri string, params, headers map[string]string) (int, any, error) {
	return c.call(ctx, Request{Method: http.MethodGet, URI: uri, Params: params, Headers: headers}, false)
}

// Post performs a POST with data encoded as JSON.
func (c *Client) Post(ctx context.Context, uri string, params, headers map[string]string, data any) (int, any, error) {
	return c.call(ctx, Request{Method: http.MethodPost, URI: uri, Params: params, Headers: headers, Data: data}, false)
}

// Put performs a PUT with data encoded as JSON.
func (c *Client) Put(ctx context.Context, uri string, params, headers map[string]string, data any) (int, any, error) {
	return c.call(ctx, Request{Method: http.MethodPut, URI: uri, Params: params, Headers: headers, Data: data}, false)
}

// Delete performs a DELETE. An empty response body yields nil data.
func (c *Client) Delete(ctx context.Context, uri string, params, headers map[string]string, data any) (int, any, error) {
	return c.call(ctx, Request{Method: http.MethodDelete, URI: uri, Params: params, Headers: headers, Data: data}, true)
}

func (c *Client) call(ctx context.Context, req Request, allowEmpty bool) (int, any, error) {
	status, body, err := c.Execute(ctx, req)
	if err != nil {
		return status, nil, err
	}
	if allowEmpty && len(strings.TrimSpace(string(body))) == 0 {
		return status, nil, nil
	}
	data, err := DecodeJSON(body)
	if err != nil {
		return status, nil, err
	}
	return status, data, nil
}

// Execute sends req and checks the response status. On success it returns the
// raw body; on a non-2xx status it returns the status with an
// *apierr.StatusError.
func (c *Client) Execute(ctx context.Context, req Request) (int, []byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req.Method = strings.ToUpper(strings.TrimSpace(req.Method))
	params := c.queryParams(req.Params)
	headers := c.requestHeaders(req.Headers)
	requestID := headers[RequestIDHeader]

	start := time.Now()
	resp, err := c.send(ctx, req, params, headers)
	elapsed := time.Since(start)
	if err == nil && resp == nil {
		err = errors.New("transport returned no response")
	}
	if err != nil {
		c.metrics.observe(req.Method, 0, elapsed)
		c.log.WarnObj("api call failed", "http_call_error", map[string]any{
			"method":     req.Method,
			"uri":        req.URI,
			"request_id": requestID,
			"error":      err.Error(),
		})
		return 0, nil, &apierr.RequestError{Method: req.Method, URI: req.URI, Err: err}
	}

	status := resp.StatusCode()
	body := resp.Body()
	c.metrics.observe(req.Method, status, elapsed)
	c.log.DebugObj("api call completed", "http_call", map[string]any{
		"method":     req.Method,
		"uri":        req.URI,
		"request_id": requestID,
		"status":     status,
		"bytes":      len(body),
		"elapsed_ms": elapsed.Milliseconds(),
	})

	if err := CheckStatusCode(status, errorMessage(body)); err != nil {
		return status, nil, err
	}
	return status, body, nil
}

func (c *Client) send(ctx context.Context, req Request, params, headers map[string]string) (Response, error) {
	switch req.Method {
	case http.MethodGet:
		if req.Data != nil {
			return nil, errors.New("GET request cannot carry a body")
		}
		return c.transport.Get(ctx, req.URI, params, headers)
	case http.MethodPost:
		return c.transport.Post(ctx, req.URI, params, headers, req.Data)
	case http.MethodPut:
		return c.transport.Put(ctx, req.URI, params, headers, req.Data)
	case http.MethodDelete:
		return c.transport.Delete(ctx, req.URI, params, headers, req.Data)
	default:
		return nil, fmt.Errorf("unsupported method %q", req.Method)
	}
}

// queryParams copies params and adds the API key when configured.
func (c *Client) queryParams(params map[string]string) map[string]string {
	if len(params) == 0 && c.apiKey == "" {
		return nil
	}
	out := make(map[string]string, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	if _, ok := out[APIKeyParam]; !ok && c.apiKey != "" {
		out[APIKeyParam] = c.apiKey
	}
	return out
}

// requestHeaders merges default and per-call headers and stamps a request id.
func (c *Client) requestHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(c.headers)+len(headers)+1)
	for k, v := range c.headers {
		out[k] = v
	}
	for k, v := range headers {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		out[http.CanonicalHeaderKey(key)] = v
	}
	if strings.TrimSpace(out[RequestIDHeader]) == "" {
		out[RequestIDHeader] = c.requestID()
	}
	return out
}
