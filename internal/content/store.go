package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when an item id does not exist in the store.
var ErrNotFound = errors.New("item not found")

// Store holds content items loaded from a directory of YAML documents,
// one file per item. Items are kept in memory; Save writes through to disk.
type Store struct {
	mu     sync.RWMutex
	dir    string
	items  map[string]*Item
	onSave []func(id string)
}

// NewStore loads all *.yaml items from dir. Missing directory is not an
// error; the store starts empty.
func NewStore(dir string) (*Store, error) {
	s := &Store{
		dir:   dir,
		items: make(map[string]*Item),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads every item file from disk, replacing the in-memory set.
func (s *Store) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read items directory: %w", err)
	}

	items := make(map[string]*Item)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read item %s: %w", e.Name(), err)
		}
		var it Item
		if err := yaml.Unmarshal(data, &it); err != nil {
			return fmt.Errorf("failed to parse item %s: %w", e.Name(), err)
		}
		if it.ID == "" {
			it.ID = strings.TrimSuffix(e.Name(), ".yaml")
		}
		items[it.ID] = &it
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return it, nil
}

// List returns all items sorted by id.
func (s *Store) List() []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Save writes the item to disk, bumps its modified timestamp and notifies
// OnSave subscribers (cache invalidation hangs off this).
func (s *Store) Save(it *Item) error {
	if it.ID == "" {
		return errors.New("item id is required")
	}
	it.Modified = time.Now().UTC()

	data, err := yaml.Marshal(it)
	if err != nil {
		return fmt.Errorf("failed to marshal item %s: %w", it.ID, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create items directory: %w", err)
	}
	path := filepath.Join(s.dir, it.ID+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write item %s: %w", it.ID, err)
	}

	s.mu.Lock()
	s.items[it.ID] = it
	callbacks := make([]func(string), len(s.onSave))
	copy(callbacks, s.onSave)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(it.ID)
	}
	return nil
}

// OnSave registers a callback invoked with the item id after every save.
func (s *Store) OnSave(fn func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSave = append(s.onSave, fn)
}

// Ancestors resolves the hierarchical parent chain of an item, outermost
// parent first. Broken or cyclic parent links terminate the walk.
func (s *Store) Ancestors(it *Item) []Ref {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []Ref
	visited := map[string]bool{it.ID: true}
	for cur := it; cur.Parent != "" && !visited[cur.Parent]; {
		parent, ok := s.items[cur.Parent]
		if !ok {
			break
		}
		visited[parent.ID] = true
		chain = append([]Ref{{Title: parent.Title, URL: parent.URL}}, chain...)
		cur = parent
	}
	return chain
}
