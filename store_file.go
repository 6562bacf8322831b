package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists the credential and cached user as a JSON file, the
// way the CLI keeps a session across runs. Unreadable or corrupt files
// read as absent; storage is never a fatal concern for the session.
type FileStore struct {
	mu   sync.Mutex
	path string
}

type fileStoreRecord struct {
	Credential string `json:"credential"`
	User       *User  `json:"user,omitempty"`
}

// NewFileStore returns a store backed by the given path. The parent
// directory is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes both entries in one atomic file replace.
func (s *FileStore) Save(credential string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(fileStoreRecord{Credential: credential, User: user})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the stored pair; any read or decode trouble is "absent".
func (s *FileStore) Load() (string, *User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", nil, false
	}

	var rec fileStoreRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", nil, false
	}
	if rec.Credential == "" {
		return "", nil, false
	}
	return rec.Credential, rec.User, true
}

// Clear removes the file; a missing file is already clear.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
