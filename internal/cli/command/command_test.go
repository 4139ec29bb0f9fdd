package command

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
	"github.com/Archi470/Todo-Mobile-Application/internal/server/httpserver"
	"github.com/Archi470/Todo-Mobile-Application/internal/server/httpserver/handler"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "secret123"
)

type env struct {
	url string
	dir string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	tokens, err := handler.NewTokenIssuer("0123456789abcdef", time.Hour)
	require.NoError(t, err)
	srv := httptest.NewServer(httpserver.NewRouter(&httpserver.RouterConfig{
		Handler: handler.New(handler.NewBackend(bcrypt.MinCost), tokens, nil),
	}))
	t.Cleanup(srv.Close)
	return &env{url: srv.URL, dir: t.TempDir()}
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes one CLI process against the test backend with a file
// store, so state carries across calls the way it does between
// invocations of the binary.
func (e *env) run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	c := New(WithIO(strings.NewReader(stdin), &out, &errOut))

	full := append([]string{AppName,
		"--config", filepath.Join(e.dir, "cli.yaml"),
		"--base-url", e.url,
		"--store", "file",
		"--store-path", filepath.Join(e.dir, "session.json"),
	}, args...)
	err := c.App().Run(full)
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func (e *env) signup(t *testing.T) {
	t.Helper()
	r := e.run(t, "", "signup", "-e", testEmail, "-p", testPassword)
	require.NoError(t, r.err, r.stderr)
}

func TestSignupPersistsSession(t *testing.T) {
	e := newEnv(t)

	r := e.run(t, "", "signup", "--email", testEmail, "--password", testPassword)
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "[success] Account created: Welcome! You are now logged in.")

	r = e.run(t, "", "-o", "json", "status")
	require.NoError(t, r.err)
	var s struct {
		Phase   string `json:"phase"`
		Token   string `json:"token"`
		Backend string `json:"backend"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &s))
	assert.Equal(t, string(domain.PhaseAuthenticated), s.Phase)
	assert.Contains(t, s.Token, "...")
	assert.Equal(t, e.url, s.Backend)

	r = e.run(t, "", "me")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, testEmail)
}

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)
	e.signup(t)

	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{"wrong password", []string{"login", "-e", testEmail, "-p", "nope-nope"}, "[error] Login failed: Incorrect credentials"},
		{"missing password", []string{"login", "-e", testEmail}, "[error] Missing fields"},
		{"invalid email", []string{"login", "-e", "ada", "-p", testPassword}, "[error] Invalid email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.run(t, "", tt.args...)
			require.Error(t, r.err)
			assert.ErrorIs(t, r.err, ErrReported)
			assert.Contains(t, r.stderr, tt.stderr)
		})
	}
}

func TestLogout(t *testing.T) {
	e := newEnv(t)
	e.signup(t)

	r := e.run(t, "", "logout")
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "[info] Signed out")

	r = e.run(t, "", "status")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, string(domain.PhaseUnauthenticated))
	assert.NotContains(t, r.stdout, "token")
}

func TestTodoLifecycle(t *testing.T) {
	e := newEnv(t)
	e.signup(t)

	r := e.run(t, "", "todo", "add", "buy", "milk")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "buy milk")

	r = e.run(t, "", "todo", "done", "1")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "done")

	r = e.run(t, "", "-o", "json", "todo", "list")
	require.NoError(t, r.err)
	var todos []domain.Todo
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &todos))
	require.Len(t, todos, 1)
	assert.Equal(t, domain.Todo{ID: 1, Title: "buy milk", Completed: true}, todos[0])

	r = e.run(t, "", "todo", "undo", "1")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "open")

	r = e.run(t, "", "todo", "rm", "1")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Todo 1 deleted")

	r = e.run(t, "", "todo", "rm", "1")
	assert.ErrorIs(t, r.err, ErrReported)
	assert.Contains(t, r.stderr, "[error] Could not delete todo: Todo not found")
}

func TestTodoArguments(t *testing.T) {
	e := newEnv(t)
	e.signup(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"blank title", []string{"todo", "add", "  "}, "title is required"},
		{"missing id", []string{"todo", "done"}, "exactly one TODO_ID"},
		{"bad id", []string{"todo", "rm", "abc"}, `invalid todo id "abc"`},
		{"zero id", []string{"todo", "undo", "0"}, "invalid todo id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.run(t, "", tt.args...)
			require.Error(t, r.err)
			assert.NotErrorIs(t, r.err, ErrReported)
			assert.Contains(t, r.err.Error(), tt.want)
		})
	}
}

func TestSignedOutCallsReportErrors(t *testing.T) {
	e := newEnv(t)

	r := e.run(t, "", "todo", "list")
	assert.ErrorIs(t, r.err, ErrReported)
	assert.Contains(t, r.stderr, "[error] Could not load todos")

	r = e.run(t, "", "me")
	assert.ErrorIs(t, r.err, ErrReported)
	assert.Contains(t, r.stderr, "[error] Could not load profile")
}

func TestPing(t *testing.T) {
	e := newEnv(t)

	r := e.run(t, "", "ping")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "Backend Running")
}

func TestConfigInitAndShow(t *testing.T) {
	e := newEnv(t)
	path := filepath.Join(e.dir, "cli.yaml")

	r := e.run(t, "", "config", "init")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	r = e.run(t, "", "config", "init")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "already exists")

	r = e.run(t, "", "config", "init", "--force")
	require.NoError(t, r.err)

	r = e.run(t, "", "config", "show")
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "base_url: "+e.url)
	assert.Contains(t, r.stdout, "backend: file")

	r = e.run(t, "", "config", "path")
	require.NoError(t, r.err)
	assert.Equal(t, path+"\n", r.stdout)
}

func TestInvalidConfig(t *testing.T) {
	e := newEnv(t)

	r := e.run(t, "", "-o", "xml", "status")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "invalid config")

	r = e.run(t, "", "--store", "tape", "status")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "store.backend")
}

func TestShellKeepsSession(t *testing.T) {
	e := newEnv(t)
	e.signup(t)

	var out, errOut bytes.Buffer
	input := strings.Join([]string{
		"logout",
		"status",
		"login -e " + testEmail + " -p " + testPassword,
		`todo add "water plants"`,
		"todo list",
		"exit",
	}, "\n") + "\n"

	c := New(WithIO(strings.NewReader(input), &out, &errOut))
	err := c.App().Run([]string{AppName,
		"--config", filepath.Join(e.dir, "cli.yaml"),
		"--base-url", e.url,
		"--store", "memory",
		"shell", "--history", filepath.Join(e.dir, "history"),
	})
	require.NoError(t, err, errOut.String())

	assert.Contains(t, out.String(), string(domain.PhaseUnauthenticated))
	assert.Contains(t, errOut.String(), "[success] Welcome back!")
	assert.Contains(t, out.String(), "water plants")

	history, err := os.ReadFile(filepath.Join(e.dir, "history"))
	require.NoError(t, err)
	assert.Contains(t, string(history), "-p ***")
	assert.NotContains(t, string(history), testPassword)
}

func TestShellRejectsGlobalFlags(t *testing.T) {
	e := newEnv(t)

	var out, errOut bytes.Buffer
	input := "--base-url http://elsewhere:1 status\n-o json status\nstatus\n"

	c := New(WithIO(strings.NewReader(input), &out, &errOut))
	err := c.App().Run([]string{AppName,
		"--config", filepath.Join(e.dir, "cli.yaml"),
		"--base-url", e.url,
		"--store", "memory",
		"-o", "json",
		"shell", "--history", "",
	})
	require.NoError(t, err, errOut.String())

	assert.Equal(t, 2, strings.Count(out.String(), errShellGlobalFlag.Error()))
	assert.Contains(t, out.String(), "Error: "+errShellGlobalFlag.Error()+": --base-url")
	// The flags given at start still apply to every line.
	assert.Contains(t, out.String(), `"backend": "`+e.url+`"`)
	assert.NotContains(t, out.String(), "elsewhere")
}
