package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
)

// mockServer routes "METHOD path" to handlers.
func mockServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"POST /auth/login": func(w http.ResponseWriter, r *http.Request) {
			var creds domain.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "a@b.com", creds.Email)
			assert.Equal(t, "secret1", creds.Password)
			jsonResponse(w, 200, map[string]string{"access_token": "tok-xyz", "token_type": "bearer"})
		},
	})

	token, err := newTestClient(t, srv.URL).Login(context.Background(), domain.NewCredentials("a@b.com", "secret1"))
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", token)
}

func TestLogin_MissingToken(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"POST /auth/login": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, 200, map[string]string{"token_type": "bearer"})
		},
	})

	_, err := newTestClient(t, srv.URL).Login(context.Background(), domain.NewCredentials("a@b.com", "secret1"))
	assert.ErrorIs(t, err, ErrRequestFailedLocally)
}

func TestRegister(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"POST /auth/signup": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, 200, map[string]any{"id": 7, "email": "a@b.com"})
		},
	})

	p, err := newTestClient(t, srv.URL).Register(context.Background(), domain.NewCredentials("a@b.com", "secret1"))
	require.NoError(t, err)
	assert.Equal(t, domain.Profile{ID: 7, Email: "a@b.com"}, p)
}

func TestTodoRoutes(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"GET /todos": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, 200, []domain.Todo{{ID: 1, Title: "buy milk"}, {ID: 2, Title: "walk dog", Completed: true}})
		},
		"POST /todos": func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"title":"new"}`, string(body))
			jsonResponse(w, 200, domain.Todo{ID: 3, Title: "new"})
		},
		"PATCH /todos/2": func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"completed":false}`, string(body), "only set fields are sent")
			jsonResponse(w, 200, domain.Todo{ID: 2, Title: "walk dog"})
		},
		"DELETE /todos/3": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
		"GET /me": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, 200, map[string]any{"id": 1, "email": "a@b.com"})
		},
		"GET /": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, 200, map[string]string{"status": "Backend Running"})
		},
	})
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	todos, err := c.ListTodos(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
	assert.True(t, todos[1].Completed)

	created, err := c.CreateTodo(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	done := false
	updated, err := c.UpdateTodo(ctx, 2, domain.TodoPatch{Completed: &done})
	require.NoError(t, err)
	assert.False(t, updated.Completed)

	require.NoError(t, c.DeleteTodo(ctx, 3))

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", me.Email)

	status, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Backend Running", status)
}

func TestListTodos_Error(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"GET /todos": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, 401, map[string]string{"detail": "Not authenticated"})
		},
	})

	todos, err := newTestClient(t, srv.URL).ListTodos(context.Background())
	assert.Nil(t, todos)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Not authenticated", UserMessage(err, "Could not load todos"))
}

func TestTodoRoute(t *testing.T) {
	assert.Equal(t, "/todos/42", TodoRoute(42))
}
