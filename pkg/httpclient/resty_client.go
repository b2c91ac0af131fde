package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// RestyTransport adapts resty.Client to the httpclient.Transport interface.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a new RestyTransport with the specified timeout.
// A nil log keeps resty's own logger.
func NewRestyTransport(timeout time.Duration, log resty.Logger) *RestyTransport {
	return &RestyTransport{client: newRestyBaseClient(timeout, log)}
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration, log resty.Logger) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	if log != nil {
		c.SetLogger(log)
	}
	return c
}

// Get performs an HTTP GET request.
func (r *RestyTransport) Get(ctx context.Context, uri string, params, headers map[string]string) (Response, error) {
	return r.execute(ctx, resty.MethodGet, uri, params, headers, nil)
}

// Post performs an HTTP POST request with data encoded as JSON.
func (r *RestyTransport) Post(ctx context.Context, uri string, params, headers map[string]string, data any) (Response, error) {
	return r.execute(ctx, resty.MethodPost, uri, params, headers, data)
}

// Put performs an HTTP PUT request with data encoded as JSON.
func (r *RestyTransport) Put(ctx context.Context, uri string, params, headers map[string]string, data any) (Response, error) {
	return r.execute(ctx, resty.MethodPut, uri, params, headers, data)
}

// Delete performs an HTTP DELETE request, sending data as JSON when present.
func (r *RestyTransport) Delete(ctx context.Context, uri string, params, headers map[string]string, data any) (Response, error) {
	return r.execute(ctx, resty.MethodDelete, uri, params, headers, data)
}

func (r *RestyTransport) execute(ctx context.Context, method, uri string, params, headers map[string]string, data any) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	if data != nil {
		// resty only encodes structs, maps and slices itself
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(raw)
	}
	resp, err := req.Execute(method, uri)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
