package memory

import (
	"sync"

	"github.com/custodia-labs/recall/internal/adapters/driven/config/values"
	"github.com/custodia-labs/recall/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigPath is what Path reports for an in-memory config.
const ConfigPath = ":memory:"

// ConfigStore keeps settings for the life of the process. Save and Load
// do nothing, so every run starts from defaults.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore creates an empty in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{values: make(map[string]any)}
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

func (s *ConfigStore) GetString(key string) string { return values.String(s, key) }
func (s *ConfigStore) GetInt(key string) int       { return values.Int(s, key) }
func (s *ConfigStore) GetFloat(key string) float64 { return values.Float(s, key) }
func (s *ConfigStore) GetBool(key string) bool     { return values.Bool(s, key) }

// Set stores a configuration value.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *ConfigStore) Save() error  { return nil }
func (s *ConfigStore) Load() error  { return nil }
func (s *ConfigStore) Path() string { return ConfigPath }
