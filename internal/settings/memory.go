package settings

import (
	"strconv"
	"sync"

	"github.com/genricoloni/playstatus/internal/domain"
)

// Compile-time interface check.
var _ domain.SettingsStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory settings store. Safe for concurrent access.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]any)}
}

// GetInt returns the integer stored at key, or def
func (s *MemoryStore) GetInt(key string, def int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return intValue(s.values, key, def)
}

// GetString returns the string stored at key, or def
func (s *MemoryStore) GetString(key string, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stringValue(s.values, key, def)
}

// SetInt stores an integer
func (s *MemoryStore) SetInt(key string, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// SetString stores a string
func (s *MemoryStore) SetString(key string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Len returns the number of stored keys
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// intValue reads key from values, accepting the integer types the TOML and
// YAML decoders produce as well as numeric strings
func intValue(values map[string]any, key string, def int) int {
	switch v := values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func stringValue(values map[string]any, key string, def string) string {
	switch v := values[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return def
}
