package handler

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/Archi470/Todo-Mobile-Application/internal/core/domain"
)

var (
	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("incorrect credentials")
	// ErrUserNotFound is returned for a token whose user no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrTodoNotFound is returned for a missing todo or one owned by another user.
	ErrTodoNotFound = errors.New("todo not found")
)

type user struct {
	profile domain.Profile
	hash    []byte
}

type todo struct {
	domain.Todo
	owner int64
}

// Backend is an in-memory user and todo store.
type Backend struct {
	cost int

	mu      sync.Mutex
	lastUID int64
	lastTID int64
	byEmail map[string]*user
	byID    map[int64]*user
	todos   map[int64]*todo
}

// NewBackend creates an empty backend hashing passwords with the
// given bcrypt cost. A zero cost uses bcrypt.DefaultCost.
func NewBackend(cost int) *Backend {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Backend{
		cost:    cost,
		byEmail: make(map[string]*user),
		byID:    make(map[int64]*user),
		todos:   make(map[int64]*todo),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// bcryptMaxInput is the longest input bcrypt accepts.
const bcryptMaxInput = 72

// passwordInput returns the bytes handed to bcrypt. Passwords longer
// than bcrypt accepts are reduced to their base64 SHA-256 digest.
func passwordInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// CreateUser registers an account.
func (b *Backend) CreateUser(email, password string) (domain.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword(passwordInput(password), b.cost)
	if err != nil {
		return domain.Profile{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := emailKey(email)
	if _, ok := b.byEmail[key]; ok {
		return domain.Profile{}, ErrEmailTaken
	}
	b.lastUID++
	u := &user{
		profile: domain.Profile{ID: b.lastUID, Email: strings.TrimSpace(email)},
		hash:    hash,
	}
	b.byEmail[key] = u
	b.byID[u.profile.ID] = u
	return u.profile, nil
}

// Authenticate checks the password of the given account.
func (b *Backend) Authenticate(email, password string) (domain.Profile, error) {
	b.mu.Lock()
	u, ok := b.byEmail[emailKey(email)]
	b.mu.Unlock()
	if !ok {
		return domain.Profile{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, passwordInput(password)); err != nil {
		return domain.Profile{}, ErrInvalidCredentials
	}
	return u.profile, nil
}

// User returns the profile with the given id.
func (b *Backend) User(id int64) (domain.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.byID[id]
	if !ok {
		return domain.Profile{}, ErrUserNotFound
	}
	return u.profile, nil
}

// ListTodos returns the owner's todos ordered by id.
func (b *Backend) ListTodos(owner int64) []domain.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Todo, 0)
	for _, t := range b.todos {
		if t.owner == owner {
			out = append(out, t.Todo)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CreateTodo adds an open todo for the owner.
func (b *Backend) CreateTodo(owner int64, title string) domain.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastTID++
	t := &todo{Todo: domain.Todo{ID: b.lastTID, Title: title}, owner: owner}
	b.todos[t.ID] = t
	return t.Todo
}

// UpdateTodo applies the non-nil fields of patch.
func (b *Backend) UpdateTodo(owner, id int64, patch domain.TodoPatch) (domain.Todo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.todos[id]
	if !ok || t.owner != owner {
		return domain.Todo{}, ErrTodoNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	return t.Todo, nil
}

// DeleteTodo removes a todo.
func (b *Backend) DeleteTodo(owner, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.todos[id]
	if !ok || t.owner != owner {
		return ErrTodoNotFound
	}
	delete(b.todos, id)
	return nil
}
