package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-storefront/internal/errors"
)

const sessionFile = "session.json"

// Store persists the session between process runs. It plays the role the
// identity provider's cookie plays in a browser: Initialize uses it for the
// silent session check.
type Store interface {
	Load() (*Session, error)
	Save(s *Session) error
	Delete() error
}

// FileStore keeps the session as JSON in a single file readable only by the owner.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the data folder if needed.
func NewFileStore(folder string) (*FileStore, error) {
	if err := os.MkdirAll(folder, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data folder: %w", err)
	}
	return &FileStore{path: filepath.Join(folder, sessionFile)}, nil
}

// Load returns errors.ErrNoSession when nothing has been saved.
func (s *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCorruptSession, err)
	}
	return &sess, nil
}

func (s *FileStore) Save(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return os.WriteFile(s.path, data, 0600)
}

func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// MemoryStore is a process-local Store, used when nothing should touch disk.
type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil, errors.ErrNoSession
	}
	// Return a copy to prevent external modifications
	return m.session.clone(), nil
}

func (m *MemoryStore) Save(sess *Session) error {
	if sess == nil {
		return errors.New("session cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = sess.clone()
	return nil
}

func (m *MemoryStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
