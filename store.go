package session

import "sync"

// MemoryStore is a TokenStore that lives and dies with the process. It is
// the default store and the one tests reach for.
type MemoryStore struct {
	mu         sync.Mutex
	credential string
	user       *User
	set        bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save overwrites both entries together.
func (s *MemoryStore) Save(credential string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
	s.user = user.Clone()
	s.set = true
	return nil
}

// Load returns the stored pair, or ok=false when never set or cleared.
func (s *MemoryStore) Load() (string, *User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", nil, false
	}
	return s.credential, s.user.Clone(), true
}

// Clear removes both entries; calling it on an empty store is a no-op.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	s.user = nil
	s.set = false
	return nil
}
