package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/genricoloni/playstatus/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	_ domain.SettingsStore = (*FileStore)(nil)
	_ domain.Flusher       = (*FileStore)(nil)
	_ domain.Reloader      = (*FileStore)(nil)
)

// Format is the on-disk encoding of a FileStore
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the encoding from the file extension; TOML is the default
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// FileStore is a flat key/value store persisted to a TOML or YAML file.
// Writes stay in memory until Flush. Safe for concurrent access.
type FileStore struct {
	logger *zap.Logger
	path   string
	format Format

	mu     sync.RWMutex
	values map[string]any
	// last holds the bytes last read from or written to disk
	last []byte
}

// NewFileStore opens the store at path. A missing file is not an error: the
// store starts empty and the file is created on the first Flush.
func NewFileStore(logger *zap.Logger, path string) (*FileStore, error) {
	s := &FileStore{
		logger: logger,
		path:   path,
		format: FormatForPath(path),
		values: make(map[string]any),
	}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file
func (s *FileStore) Path() string {
	return s.path
}

// GetInt returns the integer stored at key, or def
func (s *FileStore) GetInt(key string, def int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return intValue(s.values, key, def)
}

// GetString returns the string stored at key, or def
func (s *FileStore) GetString(key string, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return stringValue(s.values, key, def)
}

// SetInt stores an integer
func (s *FileStore) SetInt(key string, value int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = int64(value)
}

// SetString stores a string
func (s *FileStore) SetString(key string, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Flush writes the store to disk, replacing the file atomically.
// Nothing is written when the content is unchanged.
func (s *FileStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.encode()
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if bytes.Equal(data, s.last) {
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}

	s.last = data
	s.logger.Debug("Settings written", zap.String("path", s.path), zap.Int("keys", len(s.values)))
	return nil
}

// Reload re-reads the file. It reports false when the content is what the
// store last read or wrote, so the store's own writes are not seen as changes.
// On a parse error the current values are kept.
func (s *FileStore) Reload() (bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.last != nil && bytes.Equal(data, s.last) {
		return false, nil
	}

	values := make(map[string]any)
	if err := s.decode(data, &values); err != nil {
		return false, fmt.Errorf("parse settings %s: %w", s.path, err)
	}

	s.values = values
	s.last = data
	s.logger.Info("Settings loaded",
		zap.String("path", s.path),
		zap.String("format", string(s.format)),
		zap.Int("keys", len(values)))
	return true, nil
}

func (s *FileStore) encode() ([]byte, error) {
	if s.format == FormatYAML {
		return yaml.Marshal(s.values)
	}
	return toml.Marshal(s.values)
}

func (s *FileStore) decode(data []byte, out *map[string]any) error {
	if s.format == FormatYAML {
		return yaml.Unmarshal(data, out)
	}
	return toml.Unmarshal(data, out)
}
