package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unicode"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Meta keys read by the enrichment components.
const (
	// MetaSchemaCustom is the per-item custom JSON-LD override text.
	MetaSchemaCustom = "schema.custom"
	// MetaSchemaType is the per-item schema type selection.
	MetaSchemaType = "schema.type"
	// MetaTOCDisable disables the table of contents for one item.
	MetaTOCDisable = "toc.disable"
)

// ErrInvalidKey is returned when a meta key contains invalid characters.
var ErrInvalidKey = errors.New("invalid meta key")

// ValidateKey checks that a meta key contains only letters, digits, dots,
// underscores and hyphens. This protects against typos and malformed keys.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}

// Entry is one persisted meta value.
type Entry struct {
	ItemID string `json:"item_id" yaml:"item_id"`
	Key    string `json:"key" yaml:"key"`
	Value  any    `json:"value" yaml:"value"`
}

// MetaStore is an opaque per-item key/value store with typed reads,
// persisted as a single YAML file.
type MetaStore struct {
	mu   sync.RWMutex
	path string
	data map[string]map[string]any
}

// NewMetaStore loads the meta file at path. A missing file yields an empty
// store.
func NewMetaStore(path string) (*MetaStore, error) {
	m := &MetaStore{
		path: path,
		data: make(map[string]map[string]any),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("failed to read meta file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &m.data); err != nil {
		return nil, fmt.Errorf("failed to parse meta file: %w", err)
	}
	if m.data == nil {
		m.data = make(map[string]map[string]any)
	}
	return m, nil
}

// GetString returns the string value for an item key, or def when unset.
func (m *MetaStore) GetString(itemID, key, def string) string {
	v, ok := m.get(itemID, key)
	if !ok {
		return def
	}
	return cast.ToString(v)
}

// GetBool returns the bool value for an item key, or def when unset.
func (m *MetaStore) GetBool(itemID, key string, def bool) bool {
	v, ok := m.get(itemID, key)
	if !ok {
		return def
	}
	return cast.ToBool(v)
}

// GetInt returns the int value for an item key, or def when unset.
func (m *MetaStore) GetInt(itemID, key string, def int) int {
	v, ok := m.get(itemID, key)
	if !ok {
		return def
	}
	return cast.ToInt(v)
}

func (m *MetaStore) get(itemID, key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	kv, ok := m.data[itemID]
	if !ok {
		return nil, false
	}
	v, ok := kv[key]
	return v, ok
}

// Set stores a value and writes the store through to disk.
func (m *MetaStore) Set(itemID, key string, value any) error {
	if itemID == "" {
		return errors.New("item id is required")
	}
	if err := ValidateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.data[itemID]
	if !ok {
		kv = make(map[string]any)
		m.data[itemID] = kv
	}
	kv[key] = value
	return m.flushLocked()
}

// Delete removes a value and writes the store through to disk. Deleting an
// absent key is a no-op.
func (m *MetaStore) Delete(itemID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.data[itemID]
	if !ok {
		return nil
	}
	if _, ok := kv[key]; !ok {
		return nil
	}
	delete(kv, key)
	if len(kv) == 0 {
		delete(m.data, itemID)
	}
	return m.flushLocked()
}

// All returns every entry for one item.
func (m *MetaStore) All(itemID string) []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Entry
	for k, v := range m.data[itemID] {
		out = append(out, Entry{ItemID: itemID, Key: k, Value: v})
	}
	return out
}

// Entries returns every entry in the store.
func (m *MetaStore) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Entry
	for id, kv := range m.data {
		for k, v := range kv {
			out = append(out, Entry{ItemID: id, Key: k, Value: v})
		}
	}
	return out
}

func (m *MetaStore) flushLocked() error {
	data, err := yaml.Marshal(m.data)
	if err != nil {
		return fmt.Errorf("failed to marshal meta: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create meta directory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write meta file: %w", err)
	}
	return nil
}
