package gateway

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

	"taskmanager/logging"
	"taskmanager/models"

	"github.com/sony/gobreaker"
)

// TokenSource supplies the opaque bearer credential attached to every
// request. The gateway never inspects the token.
type TokenSource interface {
	Token() string
}

// TaskGateway is the remote store contract the collection and category index
// operate against.
type TaskGateway interface {
	List(ctx context.Context, ownerID string) ([]models.Task, error)
	Create(ctx context.Context, draft models.TaskDraft) (*models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	ListCategories(ctx context.Context, ownerID string) ([]models.Category, error)
}

// HTTPGateway talks to the remote task service over HTTP. Base URL and HTTP
// client are injected at construction time, never read from globals.
type HTTPGateway struct {
	baseURL           string
	client            *http.Client
	tokens            TokenSource
	tasksBreaker      *gobreaker.CircuitBreaker
	categoriesBreaker *gobreaker.CircuitBreaker
}

func NewHTTPGateway(baseURL string, client *http.Client, tokens TokenSource) *HTTPGateway {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPGateway{
		baseURL:           strings.TrimRight(baseURL, "/"),
		client:            client,
		tokens:            tokens,
		tasksBreaker:      newBreaker("TasksServiceCB"),
		categoriesBreaker: newBreaker("CategoriesServiceCB"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
		// Only connectivity failures should trip the breaker; the server
		// answering 4xx means the remote is alive.
		IsSuccessful: func(err error) bool {
			var te *models.TransportError
			return err == nil || !errors.As(err, &te)
		},
	})
}

func (g *HTTPGateway) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	var tasks []models.Task
	endpoint := fmt.Sprintf("%s/api/tasks?ownerId=%s", g.baseURL, url.QueryEscape(ownerID))
	if err := g.do(ctx, g.tasksBreaker, "list tasks", http.MethodGet, endpoint, nil, &tasks, "", ""); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (g *HTTPGateway) Create(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	var task models.Task
	endpoint := fmt.Sprintf("%s/api/tasks", g.baseURL)
	if err := g.do(ctx, g.tasksBreaker, "create task", http.MethodPost, endpoint, draft, &task, "", ""); err != nil {
		return nil, err
	}
	return &task, nil
}

func (g *HTTPGateway) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	var task models.Task
	endpoint := fmt.Sprintf("%s/api/tasks/%s", g.baseURL, url.PathEscape(id))
	if err := g.do(ctx, g.tasksBreaker, "update task", http.MethodPut, endpoint, patch, &task, "task", id); err != nil {
		return nil, err
	}
	return &task, nil
}

func (g *HTTPGateway) Delete(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/api/tasks/%s", g.baseURL, url.PathEscape(id))
	return g.do(ctx, g.tasksBreaker, "delete task", http.MethodDelete, endpoint, nil, nil, "task", id)
}

func (g *HTTPGateway) ListCategories(ctx context.Context, ownerID string) ([]models.Category, error) {
	var categories []models.Category
	endpoint := fmt.Sprintf("%s/api/categories?ownerId=%s", g.baseURL, url.QueryEscape(ownerID))
	if err := g.do(ctx, g.categoriesBreaker, "list categories", http.MethodGet, endpoint, nil, &categories, "", ""); err != nil {
		return nil, err
	}
	return categories, nil
}

// do runs one request through the given breaker and maps the response onto
// the error taxonomy. notFoundKind/notFoundID control whether a 404 is
// reported as a missing entity or as a plain rejection.
func (g *HTTPGateway) do(ctx context.Context, cb *gobreaker.CircuitBreaker, op, method, endpoint string, payload, out any, notFoundKind, notFoundID string) error {
	_, err := cb.Execute(func() (interface{}, error) {
		var bodyReader io.Reader
		if payload != nil {
			data, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s request: %w", op, err)
			}
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s request: %w", op, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if g.tokens != nil {
			if token := g.tokens.Token(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		resp, err := g.client.Do(req)
		if err != nil {
			return nil, &models.TransportError{Op: op, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound && notFoundKind != "" {
			return nil, &models.NotFoundError{Kind: notFoundKind, ID: notFoundID}
		}
		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, &models.ServerRejectedError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("failed to decode %s response: %w", op, err)
			}
		}
		return nil, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &models.TransportError{Op: op, Err: err}
	}
	return err
}
