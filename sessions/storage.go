package sessions

import (
	"errors"
	"sync"
)

// Storage keys shared by the authorization flow and the session store
const (
	KeyOAuthState   = "reload_oauth_state"
	KeyCodeVerifier = "reload_code_verifier"
	KeyAuthData     = "reload_auth_data"
)

// Storage is a string key/value store. The server backs it with signed
// cookies; tests and Go clients use MemoryStorage.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStorage is a thread-safe in-memory implementation of the Storage interface
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string]string),
	}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, exists := m.values[key]
	return value, exists
}

func (m *MemoryStorage) Set(key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
