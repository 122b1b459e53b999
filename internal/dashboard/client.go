package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pvzzle/chainlens/internal/catalog"

	"github.com/valyala/fasthttp"
)

const (
	DefaultBaseURL = "http://localhost:4020"

	healthTimeout  = 3 * time.Second
	defaultTimeout = 30 * time.Second
)

// ErrRequestFailed marks calls that never produced a JSON answer from the gateway.
var ErrRequestFailed = errors.New("request failed")

// Result is one skill answer as seen by the caller.
type Result struct {
	Data     json.RawMessage
	Status   int
	Duration time.Duration
}

type Client struct {
	base    string
	hc      *fasthttp.Client
	timeout time.Duration
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc: &fasthttp.Client{
			Name:                "chainlens-dashboard",
			MaxIdleConnDuration: 30 * time.Second,
		},
		timeout: defaultTimeout,
	}
}

func (c *Client) BaseURL() string { return c.base }

func (c *Client) get(ctx context.Context, path string, timeout time.Duration) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.SetRequestURI(c.base + path)

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.hc.DoDeadline(req, resp, deadline); err != nil {
		return 0, nil, err
	}

	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, nil
}

// Call issues GET <endpoint> and returns whatever JSON the gateway answered, error statuses included.
func (c *Client) Call(ctx context.Context, endpoint string) (*Result, error) {
	start := time.Now()
	status, body, err := c.get(ctx, endpoint, c.timeout)
	dur := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrRequestFailed, endpoint, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: GET %s: status %d with non-JSON body", ErrRequestFailed, endpoint, status)
	}
	return &Result{Data: body, Status: status, Duration: dur}, nil
}

func (c *Client) Catalog(ctx context.Context) (catalog.Catalog, error) {
	status, body, err := c.get(ctx, "/catalog", c.timeout)
	if err != nil {
		return catalog.Catalog{}, fmt.Errorf("%w: GET /catalog: %v", ErrRequestFailed, err)
	}
	if status != http.StatusOK {
		return catalog.Catalog{}, fmt.Errorf("catalog: unexpected status %d", status)
	}

	var cat catalog.Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		return catalog.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	return cat, nil
}

// Healthy reports whether the catalog answers 2xx within three seconds.
func (c *Client) Healthy(ctx context.Context) bool {
	status, _, err := c.get(ctx, "/catalog", healthTimeout)
	return err == nil && status >= 200 && status < 300
}
