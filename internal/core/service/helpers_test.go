package service

import (
	"context"
	"sync"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
	"github.com/Archi470/Todo-Mobile-Application/internal/storage/memory"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
)

// fakeAuth is a scripted Authenticator.
type fakeAuth struct {
	mu            sync.Mutex
	token         string
	tokenFor      func(domain.Credentials) string
	loginErr      error
	registerErr   error
	loginCalls    int
	registerCalls int

	// When set, Login signals started and waits for release or for its
	// ctx to end.
	started chan struct{}
	release chan struct{}
}

func (f *fakeAuth) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	f.mu.Lock()
	f.loginCalls++
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loginErr != nil {
		return "", f.loginErr
	}
	if f.tokenFor != nil {
		return f.tokenFor(creds), nil
	}
	return f.token, nil
}

func (f *fakeAuth) Register(_ context.Context, creds domain.Credentials) (domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerCalls++
	if f.registerErr != nil {
		return domain.Profile{}, f.registerErr
	}
	return domain.Profile{ID: 1, Email: creds.Email}, nil
}

func (f *fakeAuth) calls() (login, register int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.registerCalls
}

// faultyStore injects errors into a memory store.
type faultyStore struct {
	*memory.Store
	getErr    error
	setErr    error
	removeErr error
}

func (s *faultyStore) Get(ctx context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.Store.Get(ctx, key)
}

func (s *faultyStore) Set(ctx context.Context, key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.Store.Set(ctx, key, value)
}

func (s *faultyStore) Remove(ctx context.Context, key string) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	return s.Store.Remove(ctx, key)
}

func quiet() SessionOption {
	return WithSessionLogger(logger.Discard())
}
