package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store is the persisted half of a session: the raw token string and the
// serialized user profile. Both are written together on login and cleared
// together on logout. Reads must tolerate absent or corrupt values.
type Store interface {
	// LoadToken returns the persisted token, or false when none is stored.
	LoadToken() (string, bool)
	// LoadUser returns the persisted user profile JSON, or false when none
	// is stored.
	LoadUser() ([]byte, bool)
	// Save persists the token and user profile together.
	Save(token string, user []byte) error
	// Clear removes both persisted values. Clearing an empty store is fine.
	Clear() error
}

const (
	tokenFileName = "token"
	userFileName  = "user.json"
)

// FileStore persists the session under a directory, one file per key.
// Files are written with owner-only permissions since the token is a
// bearer credential.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultStoreDir returns the per-user session directory, typically
// ~/.config/farmcare on Linux.
func DefaultStoreDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, "farmcare"), nil
}

func (s *FileStore) LoadToken() (string, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, tokenFileName))
	if err != nil || len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (s *FileStore) LoadUser() ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, userFileName))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}

func (s *FileStore) Save(token string, user []byte) error {
	if err := os.WriteFile(filepath.Join(s.dir, tokenFileName), []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFileName), user, 0o600); err != nil {
		return fmt.Errorf("failed to persist user profile: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	var errs []error
	for _, name := range []string{tokenFileName, userFileName} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu    sync.Mutex
	token string
	user  []byte
	set   bool
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) LoadToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set || s.token == "" {
		return "", false
	}
	return s.token, true
}

func (s *MemStore) LoadUser() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set || len(s.user) == 0 {
		return nil, false
	}
	return s.user, true
}

func (s *MemStore) Save(token string, user []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.set = true
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.set = false
	return nil
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemStore)(nil)
)
