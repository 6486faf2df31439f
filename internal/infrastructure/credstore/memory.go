package credstore

import "sync"

// MemoryStore is an in-process credential store for tests and for embedding
// hosts that manage their own persistence.
type MemoryStore struct {
	mu    sync.RWMutex
	cred  string
	valid bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get returns the stored credential, or false when none is stored.
func (s *MemoryStore) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, s.valid
}

// Set stores the credential, replacing any previous value.
func (s *MemoryStore) Set(credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = credential
	s.valid = credential != ""
	return nil
}

// Clear removes the stored credential.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = ""
	s.valid = false
	return nil
}
