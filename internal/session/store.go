package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"admin-dashboard/internal/api"
)

// ErrNoIdentity is returned by a Store that holds nothing
var ErrNoIdentity = errors.New("no stored identity")

// Identity is what a successful login or registration yields
type Identity struct {
	User         api.User `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
}

// Store persists the identity between runs
type Store interface {
	Load() (*Identity, error)
	Save(id *Identity) error
	Clear() error
}

// FileStore keeps the identity in a JSON file readable only by its owner
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (*Identity, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoIdentity
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("decode session file %s: %w", s.path, err)
	}
	if id.AccessToken == "" {
		return nil, ErrNoIdentity
	}
	return &id, nil
}

func (s *FileStore) Save(id *Identity) error {
	raw, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}

	// written beside the target and renamed over it
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Clear removes the file; a missing file is not an error
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStore keeps the identity for the life of the process
type MemoryStore struct {
	mu sync.Mutex
	id *Identity
}

func (s *MemoryStore) Load() (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id == nil {
		return nil, ErrNoIdentity
	}
	copied := *s.id
	return &copied, nil
}

func (s *MemoryStore) Save(id *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *id
	s.id = &copied
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.id = nil
	s.mu.Unlock()
	return nil
}
