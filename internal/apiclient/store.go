package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage keys for the persisted session record.
const (
	StoreKeyToken = "token"
	StoreKeyUser  = "user"
)

// CredentialStore is the durable storage behind the session: two
// string-valued keys read at startup, written on login and verify, removed on
// logout.
type CredentialStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// FileStore persists credentials as a JSON object in a single file. Writes
// go through a temp file and rename so a crash never leaves a torn record.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore at the given path. The parent directory
// is created if missing.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("credential store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create credential store dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := record[key]
	return value, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load()
	if err != nil {
		return err
	}
	record[key] = value
	return s.save(record)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := record[key]; !ok {
		return nil
	}
	delete(record, key)
	return s.save(record)
}

func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credential store: %w", err)
	}
	record := map[string]string{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("parse credential store: %w", err)
	}
	return record, nil
}

func (s *FileStore) save(record map[string]string) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode credential store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write credential store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace credential store: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory CredentialStore for tests and ephemeral use.
type MemoryStore struct {
	mu     sync.Mutex
	record map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{record: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.record[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.record, key)
	return nil
}
