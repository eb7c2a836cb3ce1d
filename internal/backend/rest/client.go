// Package rest implements service.Repository against the gateway's tareas REST resource.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"tareas/internal/config"
	"tareas/internal/service"
)

const (
	// ResourcePath is the tareas resource, relative to the gateway root.
	ResourcePath = "services/tareams/api/tareas"

	// RequestIDHeader carries a per-request id for correlation with gateway logs.
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody bounds how much of a failed response is kept in the error.
	maxErrorBody = 4096
)

// Client implements service.Repository over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for cfg.BaseURL.
// When a token.json exists, requests carry it as a bearer token.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	var base http.RoundTripper = otelhttp.NewTransport(http.DefaultTransport)

	if cfg.HasToken() {
		token, err := cfg.ReadToken()
		if err != nil {
			return nil, err
		}
		base = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(token),
			Base:   base,
		}
	}

	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: base,
	}
	return NewWithHTTPClient(cfg.BaseURL, httpClient, opts...), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns all tasks in backend order.
func (c *Client) List(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, "list", http.MethodGet, c.resourceURL(""), nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// Create posts a task without identity and returns the created task.
func (c *Client) Create(ctx context.Context, task service.Task) (service.Task, error) {
	task.ID = ""
	var created service.Task
	if err := c.do(ctx, "create", http.MethodPost, c.resourceURL(""), task, &created); err != nil {
		return service.Task{}, err
	}
	return created, nil
}

// Update puts task to the resource selected by task.ID.
func (c *Client) Update(ctx context.Context, task service.Task) (service.Task, error) {
	if !task.Persisted() {
		return service.Task{}, &service.TransportError{Op: "update", Err: service.ErrMissingID}
	}
	var updated service.Task
	if err := c.do(ctx, "update", http.MethodPut, c.resourceURL(task.ID), task, &updated); err != nil {
		return service.Task{}, err
	}
	return updated, nil
}

// Delete removes the task with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &service.TransportError{Op: "delete", Err: service.ErrMissingID}
	}
	return c.do(ctx, "delete", http.MethodDelete, c.resourceURL(id), nil, nil)
}

func (c *Client) resourceURL(id string) string {
	u := c.baseURL + "/" + ResourcePath
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

// do issues exactly one request. A nil body sends no payload; a nil out
// discards the response body.
func (c *Client) do(ctx context.Context, op, method, target string, body, out any) error {
	fail := func(status int, err error) error {
		return &service.TransportError{Op: op, Method: method, URL: target, StatusCode: status, Err: err}
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fail(0, fmt.Errorf("marshal body: %w", err))
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fail(0, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", target),
		zap.String("request_id", requestID),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		c.logger.Error("tareas request failed", append(fields, zap.Error(err))...)
		return fail(0, err)
	}
	defer resp.Body.Close()
	fields = append(fields, zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("tareas request failed", fields...)
		msg := strings.TrimSpace(string(slurp))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fail(resp.StatusCode, errors.New(msg))
	}
	c.logger.Debug("tareas request", fields...)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fail(resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// statusOf returns the HTTP status carried by a TransportError, or 0.
func statusOf(err error) int {
	var te *service.TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
