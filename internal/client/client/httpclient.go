package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/scanpack/internal/client/models"
	"github.com/dmitrijs2005/scanpack/internal/common"
	"github.com/dmitrijs2005/scanpack/internal/logging"
)

const (
	loginPath  = "/auth/login"
	healthPath = "/health"

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

type httpOptions struct {
	timeout        time.Duration
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
	base           http.RoundTripper
	log            logging.Logger
}

type HTTPOption func(*httpOptions)

// WithTimeout bounds every request, including reading the response body.
func WithTimeout(d time.Duration) HTTPOption {
	return func(o *httpOptions) { o.timeout = d }
}

func WithTokenSource(tokens TokenSource) HTTPOption {
	return func(o *httpOptions) { o.tokens = tokens }
}

// WithUnauthorizedHandler is called when the backend rejects a token the
// client sent.
func WithUnauthorizedHandler(fn func(ctx context.Context)) HTTPOption {
	return func(o *httpOptions) { o.onUnauthorized = fn }
}

func WithBaseTransport(rt http.RoundTripper) HTTPOption {
	return func(o *httpOptions) { o.base = rt }
}

func WithLogger(l logging.Logger) HTTPOption {
	return func(o *httpOptions) { o.log = l }
}

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the API rooted at baseURL, for example
// "http://127.0.0.1:7777/api".
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	o := httpOptions{log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: o.timeout,
			Transport: &BearerTransport{
				Base:           o.base,
				Tokens:         o.tokens,
				OnUnauthorized: o.onUnauthorized,
			},
		},
		log: o.log,
	}
}

type loginRequest struct {
	UserContact string `json:"user_contact"`
	Password    string `json:"password"`
}

// Login exchanges credentials for a token and user record. A rejection by
// the backend unwraps to common.ErrInvalidCredentials.
func (c *HTTPClient) Login(ctx context.Context, identifier string, password []byte) (*models.LoginResult, error) {
	body, err := json.Marshal(loginRequest{UserContact: identifier, Password: string(password)})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	var res models.LoginResult
	if err := c.do(ctx, http.MethodPost, loginPath, body, &res); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && rejectsCredentials(apiErr.Status) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, apiErr)
		}
		return nil, fmt.Errorf("login error: %w", err)
	}

	if res.Token == "" || !res.User.Valid() {
		return nil, fmt.Errorf("login error: %w: token or user missing", common.ErrMalformedResponse)
	}
	return &res, nil
}

func rejectsCredentials(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

// Ping checks that the backend answers its health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, healthPath, nil, nil); err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}
	return nil
}

// GetJSON performs an authenticated GET of path (relative to the API root)
// and decodes the response body into out.
func (c *HTTPClient) GetJSON(ctx context.Context, path string, out any) error {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "api request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", common.ErrMalformedResponse, err)
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		apiErr.Message = eb.Message
		if apiErr.Message == "" {
			apiErr.Message = eb.Error
		}
	}
	return apiErr
}
