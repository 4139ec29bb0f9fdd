package file

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Archi470/Todo-Mobile-Application/internal/storage"
	"github.com/Archi470/Todo-Mobile-Application/internal/telemetry/logger"
)

// documentVersion is the on-disk format version.
const documentVersion = 1

// ErrCipherMismatch is returned when the document was written with a
// different sealing configuration than the store was opened with.
var ErrCipherMismatch = errors.New("file: document cipher does not match store configuration")

// document is the on-disk layout.
type document struct {
	Version int               `json:"version"`
	Cipher  string            `json:"cipher,omitempty"`
	Entries map[string]string `json:"entries"`
}

// Store is a storage.TokenStore persisted as one JSON file.
type Store struct {
	path   string
	sealer *Sealer
	logger logger.Logger

	mu     sync.Mutex
	closed bool
}

// Option configures the Store.
type Option func(*Store)

// WithSealer encrypts values at rest.
func WithSealer(s *Sealer) Option {
	return func(st *Store) {
		st.sealer = s
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(st *Store) {
		st.logger = l
	}
}

// New creates a store at path. The file is created lazily on first Set.
func New(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("file: path is required")
	}
	s := &Store{path: path, logger: logger.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", storage.ErrClosed
	}

	doc, err := s.read()
	if err != nil {
		return "", err
	}
	raw, ok := doc.Entries[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return s.decode(key, raw)
}

// Set stores value under key and rewrites the document atomically.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	doc, err := s.read()
	if err != nil {
		if !errors.Is(err, ErrCipherMismatch) {
			return err
		}
		// Values sealed differently are unreadable anyway; start over.
		s.logger.Warn("discarding token document with foreign cipher", "path", s.path)
		doc = s.empty()
	}

	encoded, err := s.encode(key, value)
	if err != nil {
		return err
	}
	doc.Entries[key] = encoded
	return s.write(doc)
}

// Remove deletes key. A missing document or key is not an error.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}

	doc, err := s.read()
	if err != nil {
		if errors.Is(err, ErrCipherMismatch) {
			return s.write(s.empty())
		}
		return err
	}
	if _, ok := doc.Entries[key]; !ok {
		return nil
	}
	delete(doc.Entries, key)
	return s.write(doc)
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) cipherName() string {
	if s.sealer != nil {
		return SealCipher
	}
	return ""
}

func (s *Store) empty() *document {
	return &document{
		Version: documentVersion,
		Cipher:  s.cipherName(),
		Entries: make(map[string]string),
	}
}

// read loads the document; a missing file yields an empty document.
func (s *Store) read() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.empty(), nil
		}
		return nil, fmt.Errorf("file: read %s: %w", s.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("file: parse %s: %w", s.path, err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("file: unsupported document version %d", doc.Version)
	}
	if doc.Cipher != s.cipherName() {
		return nil, ErrCipherMismatch
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]string)
	}
	return &doc, nil
}

// write replaces the document via a temp file in the same directory.
func (s *Store) write(doc *document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("file: create dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("file: encode document: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*.tmp")
	if err != nil {
		return fmt.Errorf("file: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file: write temp: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("file: chmod temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("file: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("file: replace %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) encode(key, value string) (string, error) {
	if s.sealer == nil {
		return value, nil
	}
	sealed, err := s.sealer.Seal([]byte(value), []byte(key))
	if err != nil {
		return "", fmt.Errorf("file: seal value: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (s *Store) decode(key, raw string) (string, error) {
	if s.sealer == nil {
		return raw, nil
	}
	sealed, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("file: decode sealed value: %w", err)
	}
	plain, err := s.sealer.Open(sealed, []byte(key))
	if err != nil {
		return "", fmt.Errorf("file: open sealed value: %w", err)
	}
	return string(plain), nil
}

var _ storage.TokenStore = (*Store)(nil)
