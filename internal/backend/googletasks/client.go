// Package googletasks implements the service.Repository interface using the Google Tasks API.
// Tareas live in the user's default task list.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tareas/internal/config"
	"tareas/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks returned by List.
	PageSize = 100

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"
)

// Client implements service.Repository using Google Tasks API.
type Client struct {
	svc    *tasks.Service
	listID string
	logger *zap.Logger
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	token, err := cfg.ReadToken()
	if err != nil {
		return nil, err
	}

	// Token source refreshes automatically; the client timeout bounds each call.
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))
	httpClient.Timeout = cfg.Timeout

	c, err := NewWithHTTPClient(ctx, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if logger != nil {
		c.logger = logger
	}
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// Extra options, such as option.WithEndpoint, are passed to the API service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listID: DefaultListID, logger: zap.NewNop()}, nil
}

// List returns the open tasks of the default list in API order.
func (c *Client) List(ctx context.Context) ([]service.Task, error) {
	resp, err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Context(ctx).
		Do()
	if err != nil {
		return nil, c.wrapError("list", err)
	}

	result := make([]service.Task, 0, len(resp.Items))
	for _, item := range resp.Items {
		task, err := fromAPI(item)
		if err != nil {
			return nil, c.wrapError("list", err)
		}
		result = append(result, task)
	}
	c.logger.Debug("google tasks listed", zap.Int("count", len(result)))
	return result, nil
}

// Create inserts a new task into the default list.
func (c *Client) Create(ctx context.Context, task service.Task) (service.Task, error) {
	item := toAPI(task)
	item.Id = ""
	created, err := c.svc.Tasks.Insert(c.listID, item).Context(ctx).Do()
	if err != nil {
		return service.Task{}, c.wrapError("create", err)
	}
	out, err := fromAPI(created)
	if err != nil {
		return service.Task{}, c.wrapError("create", err)
	}
	return out, nil
}

// Update patches the task selected by task.ID.
func (c *Client) Update(ctx context.Context, task service.Task) (service.Task, error) {
	if !task.Persisted() {
		return service.Task{}, &service.TransportError{Op: "update", Err: service.ErrMissingID}
	}
	item := toAPI(task)
	if task.FechaLimite == nil {
		// An empty Due is omitted from a patch; null it explicitly.
		item.NullFields = append(item.NullFields, "Due")
	}
	updated, err := c.svc.Tasks.Patch(c.listID, task.ID, item).Context(ctx).Do()
	if err != nil {
		return service.Task{}, c.wrapError("update", err)
	}
	out, err := fromAPI(updated)
	if err != nil {
		return service.Task{}, c.wrapError("update", err)
	}
	return out, nil
}

// Delete deletes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &service.TransportError{Op: "delete", Err: service.ErrMissingID}
	}
	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return c.wrapError("delete", err)
	}
	return nil
}

func toAPI(t service.Task) *tasks.Task {
	item := &tasks.Task{Id: t.ID, Title: t.Nombre}
	if t.FechaLimite != nil {
		item.Due = t.FechaLimite.UTC().Format(time.RFC3339)
	}
	return item
}

func fromAPI(item *tasks.Task) (service.Task, error) {
	t := service.Task{ID: item.Id, Nombre: item.Title}
	if item.Due != "" {
		due, err := service.ParseFechaLimite(item.Due)
		if err != nil {
			return service.Task{}, err
		}
		t.FechaLimite = &due
	}
	return t, nil
}

// wrapError turns an API error into a TransportError, keeping the HTTP status when present.
func (c *Client) wrapError(op string, err error) error {
	te := &service.TransportError{Op: op, Err: err}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		te.StatusCode = apiErr.Code
	}
	c.logger.Error("google tasks request failed", zap.String("op", op), zap.Error(err))
	return te
}
