// Package client is the JSON REST client the admin shell uses to reach the
// dashboard API.
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

	"admin-dashboard/internal/api"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTransport wraps every failure that happened before a response arrived
var ErrTransport = errors.New("transport failure")

// APIError is a non-2xx response. Message comes from the body when the
// server sent one.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []api.ValidationError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// TokenSource hands out the bearer token for each request. An empty token
// sends no Authorization header.
type TokenSource interface {
	Token() string
}

// Client sends JSON requests relative to a base URL
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

type Option func(*Client)

// WithTimeout bounds every request. Zero keeps the default of no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for baseURL, e.g. http://localhost:3000
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokenSource replaces the token source after construction, which the
// session needs because it is itself built on a client
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends body as JSON and decodes a 2xx response into out. Non-2xx
// responses become *APIError and everything before a response becomes
// ErrTransport. Nothing is retried.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	reqID := uuid.New().String()
	start := time.Now()
	url := c.baseURL + path

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("api request",
		zap.String("req_id", reqID),
		zap.String("method", method),
		zap.String("url", url),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed",
			zap.String("req_id", reqID),
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	c.logger.Debug("api response",
		zap.String("req_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode/100 != 2 {
		return decodeAPIError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response of %s %s: %w", method, path, err)
	}
	return nil
}

// errorBody covers both shapes the API answers with: the
// {error:{code,message,details}} envelope and the auth {success,message,errors}
type errorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			ValidationErrors []api.ValidationError `json:"validation_errors"`
		} `json:"details"`
	} `json:"error"`
	Message string                `json:"message"`
	Errors  []api.ValidationError `json:"errors"`
}

func decodeAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status, Code: http.StatusText(status)}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}

	if body.Error != nil {
		apiErr.Message = body.Error.Message
		apiErr.Fields = body.Error.Details.ValidationErrors
		if body.Error.Code != "" {
			apiErr.Code = body.Error.Code
		}
		return apiErr
	}

	apiErr.Message = body.Message
	apiErr.Fields = body.Errors
	return apiErr
}

// MessageOf returns the message a failed call should show, or fallback when
// the server gave none
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
