package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
	"github.com/Archi470/Todo-Mobile-Application/internal/storage"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/metric"
)

// Authenticator performs the backend calls that produce a session.
type Authenticator interface {
	// Login exchanges credentials for an access token.
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	// Register creates an account. It does not return a token.
	Register(ctx context.Context, creds domain.Credentials) (domain.Profile, error)
}

// SessionMachine owns the authentication state.
//
// Every mutation writes the token store first and publishes the new
// state only after the write succeeded. The pair (write, publish) runs
// under a commit lock, so the final in-memory state always matches the
// last durable write even when operations race.
type SessionMachine struct {
	store   storage.TokenStore
	auth    Authenticator
	key     string
	logger  logger.Logger
	metrics *metric.Registry

	mu     sync.Mutex
	state  domain.SessionState
	seq    uint64
	booted bool

	commitMu sync.Mutex
	flights  singleflight.Group
	subs     broadcaster[domain.SessionState]
}

// SessionOption configures a SessionMachine.
type SessionOption func(*SessionMachine)

// WithTokenKey sets the store key holding the token.
func WithTokenKey(key string) SessionOption {
	return func(m *SessionMachine) {
		if key != "" {
			m.key = key
		}
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(l logger.Logger) SessionOption {
	return func(m *SessionMachine) {
		m.logger = l
	}
}

// WithSessionMetrics records transitions on r.
func WithSessionMetrics(r *metric.Registry) SessionOption {
	return func(m *SessionMachine) {
		m.metrics = r
	}
}

// NewSessionMachine creates a machine in the bootstrapping phase.
func NewSessionMachine(store storage.TokenStore, auth Authenticator, opts ...SessionOption) *SessionMachine {
	m := &SessionMachine{
		store:  store,
		auth:   auth,
		key:    storage.DefaultKey,
		logger: logger.Default(),
		state:  domain.Bootstrapping(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "session")
	return m
}

// Bootstrap reads the stored token and leaves the bootstrapping phase.
//
// The returned state is never bootstrapping. A present value yields
// authenticated; an absent or empty value yields unauthenticated. A read
// failure also yields unauthenticated and is returned as an informational
// error alongside the settled state. Calling Bootstrap again returns the
// current state and ErrAlreadyBootstrapped.
func (m *SessionMachine) Bootstrap(ctx context.Context) (domain.SessionState, error) {
	m.mu.Lock()
	if m.booted {
		st := m.state
		m.mu.Unlock()
		return st, domain.ErrAlreadyBootstrapped
	}
	m.booted = true
	m.mu.Unlock()

	token, readErr := m.store.Get(ctx, m.key)
	if errors.Is(readErr, storage.ErrNotFound) {
		readErr = nil
	}

	next := domain.Unauthenticated()
	if readErr == nil && token != "" {
		next, _ = domain.NewAuthenticated(token)
	}

	m.commitMu.Lock()
	m.transition(next)
	m.commitMu.Unlock()

	if readErr != nil {
		m.logger.Warn("token read failed, starting signed out", "error", readErr)
		return next, domain.ErrStorage.WithDetails("read session token").WithCause(readErr)
	}
	m.logger.Info("session bootstrapped", "phase", next.Phase())
	return next, nil
}

// SignIn logs in and stores the returned token.
//
// Backend errors are returned unchanged and leave the state untouched.
// If the token cannot be stored the machine does not transition and a
// TD-STOR error is returned. Concurrent calls with identical credentials
// share one backend call.
func (m *SessionMachine) SignIn(ctx context.Context, email, password string) error {
	if err := m.ready(); err != nil {
		return err
	}
	creds := domain.NewCredentials(email, password)

	shared, err := m.collapse(ctx, flightKey("signin", creds), func(ctx context.Context) error {
		token, err := m.auth.Login(ctx, creds)
		if err != nil {
			return err
		}
		return m.commitToken(ctx, token)
	})
	if shared {
		m.logger.Debug("sign-in collapsed into in-flight call", "email", creds.Email)
	}
	return err
}

// SignUp registers an account and then signs in with the same
// credentials.
//
// A registration error is returned unchanged. When registration succeeds
// but the login that follows fails, the machine stays signed out and
// ErrSignUpIncomplete is returned wrapping the login error.
func (m *SessionMachine) SignUp(ctx context.Context, email, password string) error {
	if err := m.ready(); err != nil {
		return err
	}
	creds := domain.NewCredentials(email, password)

	_, err := m.collapse(ctx, flightKey("signup", creds), func(ctx context.Context) error {
		if _, err := m.auth.Register(ctx, creds); err != nil {
			return err
		}
		token, err := m.auth.Login(ctx, creds)
		if err != nil {
			m.logger.Warn("account registered but login failed", "email", creds.Email, "error", err)
			return domain.ErrSignUpIncomplete.
				WithDetails("account " + creds.Email + " was created but signing in failed").
				WithCause(err)
		}
		return m.commitToken(ctx, token)
	})
	return err
}

// collapse runs fn once for every concurrent caller with the same key.
// fn runs detached from any single caller's cancellation; a caller whose
// ctx ends stops waiting and gets ctx.Err() while the flight finishes
// for the others. The flight keeps the first caller's ctx values but not
// its deadline; the Authenticator bounds each call itself.
func (m *SessionMachine) collapse(ctx context.Context, key string, fn func(context.Context) error) (shared bool, err error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := m.flights.DoChan(key, func() (any, error) {
		return nil, fn(flightCtx)
	})
	select {
	case res := <-ch:
		return res.Shared, res.Err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// SignOut removes the stored token and transitions to unauthenticated.
//
// The transition happens even when removal fails; the removal error is
// then returned for reporting. Signing out while signed out is a no-op.
// Before Bootstrap has settled it returns ErrBootstrapPending and leaves
// the state untouched.
func (m *SessionMachine) SignOut(ctx context.Context) error {
	if err := m.ready(); err != nil {
		return err
	}

	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	removeErr := m.store.Remove(ctx, m.key)
	m.transition(domain.Unauthenticated())

	if removeErr != nil {
		m.logger.Warn("token removal failed", "error", removeErr)
		return domain.ErrStorage.WithDetails("remove session token").WithCause(removeErr)
	}
	return nil
}

// Current returns the current state.
func (m *SessionMachine) Current() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn for future transitions. Callbacks run
// synchronously in transition order and must not call SignIn, SignUp or
// SignOut. The returned function cancels the subscription.
func (m *SessionMachine) Subscribe(fn func(domain.SessionState)) (cancel func()) {
	_, cancel = m.Observe(fn)
	return cancel
}

// Observe returns the current state and subscribes fn to every
// transition after it, with no gap between the two.
func (m *SessionMachine) Observe(fn func(domain.SessionState)) (domain.SessionState, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.subs.subscribe(fn, m.seq)
}

func (m *SessionMachine) ready() error {
	if m.Current().IsBootstrapping() {
		return domain.ErrBootstrapPending
	}
	return nil
}

// commitToken persists token and then publishes the authenticated state.
func (m *SessionMachine) commitToken(ctx context.Context, token string) error {
	next, err := domain.NewAuthenticated(token)
	if err != nil {
		return err
	}

	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	if err := m.store.Set(ctx, m.key, token); err != nil {
		m.logger.Error("token write failed", "error", err)
		return domain.ErrStorage.WithDetails("persist session token").WithCause(err)
	}
	m.transition(next)
	return nil
}

// transition replaces the state and notifies subscribers.
// Caller holds commitMu.
func (m *SessionMachine) transition(next domain.SessionState) {
	m.mu.Lock()
	prev := m.state
	if prev == next {
		m.mu.Unlock()
		return
	}
	m.state = next
	m.seq++
	seq := m.seq
	m.mu.Unlock()

	m.metrics.SessionTransition(string(prev.Phase()), string(next.Phase()))
	m.logger.Debug("session transition", "from", prev.Phase(), "to", next.Phase())
	m.subs.publish(seq, next)
}

func flightKey(op string, creds domain.Credentials) string {
	return op + "\x00" + creds.Email + "\x00" + creds.Password
}
