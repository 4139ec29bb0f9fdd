// Package app wires the session machine, gateway, notifier and token
// store together and provides the operations screens call.
//
// Each operation reports its outcome as exactly one notification.
// Preflight validation runs before any network call.
package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
	"github.com/Archi470/Todo-Mobile-Application/internal/core/service"
	"github.com/Archi470/Todo-Mobile-Application/internal/gateway"
	"github.com/Archi470/Todo-Mobile-Application/internal/infra/clock"
	"github.com/Archi470/Todo-Mobile-Application/internal/storage"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/metric"
)

// Notification texts.
const (
	TitleLoginFailed   = "Login failed"
	TitleSignupFailed  = "Signup failed"
	TitleWelcomeBack   = "Welcome back!"
	TitleAccount       = "Account created"
	TitleSignedOut     = "Signed out"
	TitleLoadTodos     = "Could not load todos"
	TitleAddTodo       = "Could not add todo"
	TitleUpdateTodo    = "Could not update todo"
	TitleDeleteTodo    = "Could not delete todo"
	TitleLoadProfile   = "Could not load profile"
	TitleMissingFields = "Missing fields"
	TitleInvalidEmail  = "Invalid email"
	TitleWeakPassword  = "Weak password"

	msgLoginFallback  = "Login failed. Please try again."
	msgSignupFallback = "Signup failed. Please try again."
	msgRetry          = "Please try again."
	msgLoggedIn       = "You have logged in successfully."
	msgSignedUp       = "Welcome! You are now logged in."
)

// Config configures an App.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	Burst     int

	Store StoreConfig

	NotifyTTL time.Duration

	// SignOutOnUnauthorized signs the user out when an authenticated
	// call is answered with 401.
	SignOutOnUnauthorized bool
}

// App is the composition root used by the CLI and tests.
type App struct {
	Sessions *service.SessionMachine
	Notifier *service.Notifier
	Gateway  *gateway.Client

	store                 storage.TokenStore
	logger                logger.Logger
	signOutOnUnauthorized bool
}

var _ service.Authenticator = (*gateway.Client)(nil)

// Option configures New.
type Option func(*options)

type options struct {
	store      storage.TokenStore
	logger     logger.Logger
	metrics    *metric.Registry
	clock      clock.Clock
	httpClient *http.Client
}

// WithStore uses s instead of opening cfg.Store.
func WithStore(s storage.TokenStore) Option {
	return func(o *options) { o.store = s }
}

// WithLogger sets the logger shared by every component.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records metrics on r.
func WithMetrics(r *metric.Registry) Option {
	return func(o *options) { o.metrics = r }
}

// WithClock sets the notifier clock.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithHTTPClient sets the gateway's HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// New builds the App. The session machine starts bootstrapping; call
// Start before any other operation.
func New(cfg Config, opts ...Option) (*App, error) {
	o := options{logger: logger.Default(), clock: clock.System()}
	for _, opt := range opts {
		opt(&o)
	}

	store := o.store
	if store == nil {
		s, err := OpenStore(cfg.Store, o.logger)
		if err != nil {
			return nil, err
		}
		store = s
	}

	key := cfg.Store.Key
	if key == "" {
		key = storage.DefaultKey
	}

	gw, err := gateway.New(cfg.BaseURL,
		gateway.WithTokenReader(store),
		gateway.WithTokenKey(key),
		gateway.WithHTTPClient(o.httpClient),
		gateway.WithTimeout(cfg.Timeout),
		gateway.WithRateLimit(cfg.RateLimit, cfg.Burst),
		gateway.WithMetrics(o.metrics),
		gateway.WithLogger(o.logger),
	)
	if err != nil {
		if o.store == nil {
			_ = store.Close()
		}
		return nil, err
	}

	sessions := service.NewSessionMachine(store, gw,
		service.WithTokenKey(key),
		service.WithSessionLogger(o.logger),
		service.WithSessionMetrics(o.metrics),
	)
	notifier := service.NewNotifier(
		service.WithTTL(cfg.NotifyTTL),
		service.WithClock(o.clock),
		service.WithNotifierLogger(o.logger),
		service.WithNotifierMetrics(o.metrics),
	)

	if o.metrics != nil {
		o.metrics.MustRegister(metric.NewPhaseCollector(
			[]string{string(domain.PhaseBootstrapping), string(domain.PhaseAuthenticated), string(domain.PhaseUnauthenticated)},
			func() string { return string(sessions.Current().Phase()) },
		))
	}

	return &App{
		Sessions:              sessions,
		Notifier:              notifier,
		Gateway:               gw,
		store:                 store,
		logger:                o.logger.With("component", "app"),
		signOutOnUnauthorized: cfg.SignOutOnUnauthorized,
	}, nil
}

// Start bootstraps the session. A token read failure leaves the user
// signed out and is returned for reporting only.
func (a *App) Start(ctx context.Context) (domain.SessionState, error) {
	st, err := a.Sessions.Bootstrap(ctx)
	if err != nil && !errors.Is(err, domain.ErrAlreadyBootstrapped) {
		a.logger.Warn("bootstrap degraded to signed out", "error", err)
	}
	return st, err
}

// Close stops the notifier and releases the token store.
func (a *App) Close() error {
	a.Notifier.Clear()
	return a.store.Close()
}

// Login validates the form and signs in.
func (a *App) Login(ctx context.Context, email, password string) error {
	creds := domain.NewCredentials(email, password)
	if err := creds.ValidateLogin(); err != nil {
		a.notifyValidation(err)
		return err
	}

	if err := a.Sessions.SignIn(ctx, creds.Email, creds.Password); err != nil {
		a.Notifier.Error(TitleLoginFailed, gateway.UserMessage(err, msgLoginFallback))
		return err
	}
	a.Notifier.Success(TitleWelcomeBack, msgLoggedIn)
	return nil
}

// SignUp validates the form, registers and signs in.
func (a *App) SignUp(ctx context.Context, email, password string) error {
	creds := domain.NewCredentials(email, password)
	if err := creds.ValidateSignUp(); err != nil {
		a.notifyValidation(err)
		return err
	}

	if err := a.Sessions.SignUp(ctx, creds.Email, creds.Password); err != nil {
		a.Notifier.Error(TitleSignupFailed, gateway.UserMessage(err, msgSignupFallback))
		return err
	}
	a.Notifier.Success(TitleAccount, msgSignedUp)
	return nil
}

// Logout signs out. It always ends signed out; a store failure is logged.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Sessions.SignOut(ctx); err != nil {
		if errors.Is(err, domain.ErrBootstrapPending) {
			return err
		}
		a.logger.Warn("sign-out left a stale token behind", "error", err)
	}
	a.Notifier.Info(TitleSignedOut, "")
	return nil
}

// Profile loads the signed-in user's profile.
func (a *App) Profile(ctx context.Context) (domain.Profile, error) {
	p, err := a.Gateway.Me(ctx)
	if err != nil {
		a.fail(ctx, TitleLoadProfile, err)
		return domain.Profile{}, err
	}
	return p, nil
}

// ListTodos loads the todo list.
func (a *App) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	todos, err := a.Gateway.ListTodos(ctx)
	if err != nil {
		a.fail(ctx, TitleLoadTodos, err)
		return nil, err
	}
	return todos, nil
}

// AddTodo creates a todo with the trimmed title. A blank title is a
// no-op and returns nil, nil.
func (a *App) AddTodo(ctx context.Context, title string) (*domain.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	t, err := a.Gateway.CreateTodo(ctx, title)
	if err != nil {
		a.fail(ctx, TitleAddTodo, err)
		return nil, err
	}
	return &t, nil
}

// ToggleTodo flips the completion flag of t.
func (a *App) ToggleTodo(ctx context.Context, t domain.Todo) (domain.Todo, error) {
	return a.SetTodoCompleted(ctx, t.ID, !t.Completed)
}

// SetTodoCompleted sets the completion flag of todo id.
func (a *App) SetTodoCompleted(ctx context.Context, id int64, completed bool) (domain.Todo, error) {
	t, err := a.Gateway.UpdateTodo(ctx, id, domain.TodoPatch{Completed: &completed})
	if err != nil {
		a.fail(ctx, TitleUpdateTodo, err)
		return domain.Todo{}, err
	}
	return t, nil
}

// DeleteTodo removes todo id.
func (a *App) DeleteTodo(ctx context.Context, id int64) error {
	if err := a.Gateway.DeleteTodo(ctx, id); err != nil {
		a.fail(ctx, TitleDeleteTodo, err)
		return err
	}
	return nil
}

// fail posts the error notification for an authenticated call and, when
// configured, signs out on 401.
func (a *App) fail(ctx context.Context, title string, err error) {
	a.Notifier.Error(title, gateway.UserMessage(err, msgRetry))

	if !a.signOutOnUnauthorized || !errors.Is(err, gateway.ErrUnauthorized) {
		return
	}
	if !a.Sessions.Current().IsAuthenticated() {
		return
	}
	a.logger.Info("signing out after 401")
	if serr := a.Sessions.SignOut(ctx); serr != nil {
		a.logger.Warn("forced sign-out left a stale token behind", "error", serr)
	}
}

func (a *App) notifyValidation(err error) {
	var de *domain.DomainError
	if !errors.As(err, &de) {
		a.Notifier.Error(TitleLoginFailed, err.Error())
		return
	}

	title := TitleMissingFields
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		title = TitleInvalidEmail
	case errors.Is(err, domain.ErrWeakPassword):
		title = TitleWeakPassword
	}
	a.Notifier.Error(title, de.Details)
}
