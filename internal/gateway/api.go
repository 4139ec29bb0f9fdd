package gateway

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
)

// Backend routes.
const (
	RouteHealth = "/"
	RouteLogin  = "/auth/login"
	RouteSignup = "/auth/signup"
	RouteMe     = "/me"
	RouteTodos  = "/todos"
)

// TodoRoute returns the route of a single todo.
func TodoRoute(id int64) string {
	return RouteTodos + "/" + strconv.FormatInt(id, 10)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type createTodoRequest struct {
	Title string `json:"title"`
}

// Login exchanges credentials for an access token. A 2xx response
// without a token is a local failure.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var resp tokenResponse
	if err := c.Send(ctx, http.MethodPost, RouteLogin, creds, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", localError(http.MethodPost, RouteLogin, "response has no access_token", nil)
	}
	return resp.AccessToken, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, creds domain.Credentials) (domain.Profile, error) {
	var p domain.Profile
	err := c.Send(ctx, http.MethodPost, RouteSignup, creds, &p)
	return p, err
}

// Me returns the profile of the token's owner.
func (c *Client) Me(ctx context.Context) (domain.Profile, error) {
	var p domain.Profile
	err := c.Send(ctx, http.MethodGet, RouteMe, nil, &p)
	return p, err
}

// ListTodos returns the caller's todos.
func (c *Client) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	todos := []domain.Todo{}
	if err := c.Send(ctx, http.MethodGet, RouteTodos, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// CreateTodo adds a todo.
func (c *Client) CreateTodo(ctx context.Context, title string) (domain.Todo, error) {
	var t domain.Todo
	err := c.Send(ctx, http.MethodPost, RouteTodos, createTodoRequest{Title: title}, &t)
	return t, err
}

// UpdateTodo applies a partial update.
func (c *Client) UpdateTodo(ctx context.Context, id int64, patch domain.TodoPatch) (domain.Todo, error) {
	var t domain.Todo
	err := c.Send(ctx, http.MethodPatch, TodoRoute(id), patch, &t)
	return t, err
}

// DeleteTodo removes a todo.
func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	return c.Send(ctx, http.MethodDelete, TodoRoute(id), nil, nil)
}

// Health returns the backend status string.
func (c *Client) Health(ctx context.Context) (string, error) {
	var s statusResponse
	err := c.Send(ctx, http.MethodGet, RouteHealth, nil, &s)
	return s.Status, err
}
