package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sparkyweld/sparky-client/internal/logger"
	"github.com/sparkyweld/sparky-client/internal/state"
	"github.com/sparkyweld/sparky-client/models"
)

const refreshPath = "/api/auth/refresh"

// Config carries the settings needed to construct a [Client].
type Config struct {
	// BaseURL is the backend base URL. A bare host:port is accepted and
	// normalised to http://.
	BaseURL string

	// Timeout bounds a single request. Defaults to 10 seconds.
	Timeout time.Duration
}

// Client is the single HTTP gateway to the Sparky backend. All REST traffic
// (products, inventory, orchestrator, chat, quotes, system health) goes
// through its verb methods, which share one request pipeline:
//
//  1. attach the current bearer token from the state store, if any;
//  2. on transport failure, flag the backend as disconnected, notify, and
//     return the error;
//  3. on 401, run one refresh-and-retry cycle, never more than one replay
//     per logical request;
//  4. on any other error status, notify with the best extractable message
//     and return a sentinel-wrapped error;
//  5. on success, flag the backend as connected.
type Client struct {
	client *resty.Client
	store  *state.Store
	logger *logger.Logger

	// refreshMu collapses concurrent refresh cycles: the first caller
	// refreshes, the rest observe the replaced token pair and skip.
	refreshMu sync.Mutex
}

// New constructs a Client against cfg.BaseURL. Returns an error if the base
// URL is empty or cannot be parsed.
func New(cfg Config, store *state.Store, log *logger.Logger) (*Client, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout)

	return &Client{client: cli, store: store, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// RequestOption customises a single outgoing request.
type RequestOption func(*resty.Request)

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(req *resty.Request) {
		req.SetQueryParam(key, value)
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) RequestOption {
	return func(req *resty.Request) {
		req.SetHeader(key, value)
	}
}

// Get issues a GET and decodes the response body into out (unless nil).
func (c *Client) Get(ctx context.Context, urlPath string, out any, opts ...RequestOption) error {
	return c.execute(ctx, func() (*resty.Response, error) {
		return c.jsonRequest(ctx, nil, out, opts).Get(urlPath)
	})
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, urlPath string, body, out any, opts ...RequestOption) error {
	return c.execute(ctx, func() (*resty.Response, error) {
		return c.jsonRequest(ctx, body, out, opts).Post(urlPath)
	})
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, urlPath string, body, out any, opts ...RequestOption) error {
	return c.execute(ctx, func() (*resty.Response, error) {
		return c.jsonRequest(ctx, body, out, opts).Put(urlPath)
	})
}

// Patch issues a PATCH with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, urlPath string, body, out any, opts ...RequestOption) error {
	return c.execute(ctx, func() (*resty.Response, error) {
		return c.jsonRequest(ctx, body, out, opts).Patch(urlPath)
	})
}

// Delete issues a DELETE. body may be nil.
func (c *Client) Delete(ctx context.Context, urlPath string, body any, opts ...RequestOption) error {
	return c.execute(ctx, func() (*resty.Response, error) {
		return c.jsonRequest(ctx, body, nil, opts).Delete(urlPath)
	})
}

// ProgressFunc reports upload progress as bytes sent out of total.
type ProgressFunc func(sent, total int64)

// Upload sends data as a multipart file field named "file". onProgress may
// be nil. The response body is decoded into out (unless nil).
func (c *Client) Upload(ctx context.Context, urlPath, filename string, data []byte, onProgress ProgressFunc, out any, opts ...RequestOption) error {
	return c.execute(ctx, func() (*resty.Response, error) {
		// A fresh reader per attempt keeps the refresh replay valid.
		var reader io.Reader = bytes.NewReader(data)
		if onProgress != nil {
			reader = &progressReader{r: reader, total: int64(len(data)), fn: onProgress}
		}

		req := c.authedRequest(ctx).
			SetMultipartField("file", filename, "application/octet-stream", reader)
		if out != nil {
			req.SetResult(out)
		}
		for _, opt := range opts {
			opt(req)
		}
		return req.Post(urlPath)
	})
}

// Download fetches urlPath and writes the response body to filename. When
// filename is empty, the last element of urlPath is used in the current
// directory.
func (c *Client) Download(ctx context.Context, urlPath, filename string, opts ...RequestOption) error {
	var body []byte
	err := c.execute(ctx, func() (*resty.Response, error) {
		req := c.authedRequest(ctx)
		for _, opt := range opts {
			opt(req)
		}
		resp, err := req.Get(urlPath)
		if err == nil {
			body = resp.Body()
		}
		return resp, err
	})
	if err != nil {
		return err
	}

	if filename == "" {
		filename = path.Base(strings.TrimRight(urlPath, "/"))
	}
	if err := os.WriteFile(filename, body, 0644); err != nil {
		return fmt.Errorf("write download %s: %w", filename, err)
	}

	return nil
}

func (c *Client) jsonRequest(ctx context.Context, body, out any, opts []RequestOption) *resty.Request {
	req := c.authedRequest(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	for _, opt := range opts {
		opt(req)
	}
	return req
}

func (c *Client) authedRequest(ctx context.Context) *resty.Request {
	req := c.client.R().SetContext(ctx)
	if token := c.store.AccessToken(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// execute runs do once, and at most one more time after a successful token
// refresh. do must build a fresh request on every call so the replay picks
// up the replaced bearer token.
func (c *Client) execute(ctx context.Context, do func() (*resty.Response, error)) error {
	resp, err := do()
	if err != nil {
		return c.transportFailure(err)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		if refreshErr := c.refresh(ctx); refreshErr != nil {
			return c.sessionExpired(refreshErr)
		}

		resp, err = do()
		if err != nil {
			return c.transportFailure(err)
		}
	}

	if resp.IsError() {
		// The status line stands in for a transport error so an unstructured
		// body still surfaces something more specific than the generic text.
		msg := errorMessage(resp.Body(), errors.New(resp.Status()))
		c.store.Notify(models.NotifyError, msg)
		return mapStatusError(resp, msg)
	}

	c.store.SetConnectivity(models.BackendConnected)
	return nil
}

func (c *Client) transportFailure(err error) error {
	c.store.SetConnectivity(models.BackendDisconnected)
	c.store.Notify(models.NotifyError, "Network error. Check your connection and try again.")
	c.logger.Warn().Err(err).Msg("transport failure")
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func (c *Client) sessionExpired(refreshErr error) error {
	c.store.ClearCredentials()
	c.store.Notify(models.NotifyWarning, "Your session has expired. Please log in again.")
	c.store.SignalAuthExpired()
	c.logger.Warn().Err(refreshErr).Msg("token refresh failed, credentials cleared")
	return fmt.Errorf("%w: %v", ErrSessionExpired, refreshErr)
}

// refresh exchanges the stored refresh token for a new pair. Concurrent
// callers are collapsed: whoever wins the mutex refreshes, late arrivals see
// the token pair already replaced and return immediately.
func (c *Client) refresh(ctx context.Context) error {
	refreshToken := c.store.RefreshToken()
	if refreshToken == "" {
		return fmt.Errorf("no refresh token held")
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if c.store.RefreshToken() != refreshToken {
		return nil
	}

	var lr models.LoginResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RefreshRequest{RefreshToken: refreshToken}).
		SetResult(&lr).
		Post(refreshPath)
	if err != nil {
		return fmt.Errorf("refresh request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("refresh rejected: http %d", resp.StatusCode())
	}
	if lr.Tokens.AccessToken == "" {
		return fmt.Errorf("refresh response carried no access token")
	}

	c.store.SetTokens(lr.Tokens)
	c.logger.Debug().Msg("access token refreshed")
	return nil
}

type progressReader struct {
	r     io.Reader
	total int64
	sent  int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent, p.total)
	}
	return n, err
}
