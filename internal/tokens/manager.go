package tokens

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/kiefferbp/arbitrum-token-bridge/internal/constants"
	"github.com/kiefferbp/arbitrum-token-bridge/internal/storedir"
)

// Manager owns the user-added token store (tokens.json under the app
// config dir). List-sourced tokens never pass through here; those live
// in the tokenlists catalogue. Safe for concurrent use: the HTTP
// handlers read the store while imports write to it.
type Manager struct {
	path string

	mu    sync.RWMutex
	store Store
}

// NewManager resolves the tokens.json path and returns an empty manager.
// Call Load to pick up a store written by a previous run.
func NewManager() (*Manager, error) {
	path, err := storedir.Resolve(constants.AppName, constants.TokensFile)
	if err != nil {
		return nil, err
	}
	return NewManagerAt(path), nil
}

// NewManagerAt builds a manager over an explicit store path. Used by
// tests and by commands that operate on a non-default location.
func NewManagerAt(path string) *Manager {
	return &Manager{
		path: path,
		store: Store{
			Schema: constants.SchemaV1,
			Tokens: map[string]Record{},
		},
	}
}

// Path returns the resolved tokens.json path.
func (m *Manager) Path() string { return m.path }

// Load reads tokens.json into memory. A missing file leaves the store
// empty without error.
func (m *Manager) Load() error {
	b, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read tokens file: %w", err)
	}

	var s Store
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("unmarshal tokens file: %w", err)
	}
	if s.Schema == 0 {
		s.Schema = constants.SchemaV1
	}

	// normalize addresses on load, skipping bad entries
	normalized := Store{Schema: s.Schema, Tokens: map[string]Record{}}
	for key, rec := range s.Tokens {
		addr, err := NormalizeAddress(key)
		if err != nil {
			continue
		}
		rec.Address = addr
		normalized.Tokens[addr] = rec
	}

	m.mu.Lock()
	m.store = normalized
	m.mu.Unlock()
	return nil
}

// Add validates and stores a record, then persists the store.
func (m *Manager) Add(rec Record) (Record, error) {
	addr, err := NormalizeAddress(rec.Address)
	if err != nil {
		return Record{}, err
	}
	rec.Address = addr

	if rec.L2Address != "" {
		l2, err := NormalizeAddress(rec.L2Address)
		if err != nil {
			return Record{}, fmt.Errorf("l2 address: %w", err)
		}
		rec.L2Address = l2
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.Tokens[addr] = rec
	if err := m.persist(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Remove drops a token by address and persists; removing an unknown
// address is a no-op.
func (m *Manager) Remove(address string) error {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store.Tokens[addr]; !ok {
		return nil
	}
	delete(m.store.Tokens, addr)
	return m.persist()
}

// Get looks a record up by address.
func (m *Manager) Get(address string) (Record, bool) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return Record{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.store.Tokens[addr]
	return rec, ok
}

// Map returns a copy of the address -> record mapping, safe for the
// caller to hold across a recomputation.
func (m *Manager) Map() map[string]Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Record, len(m.store.Tokens))
	for k, v := range m.store.Tokens {
		out[k] = v
	}
	return out
}

// List returns the stored records sorted by symbol, stable for UI use.
func (m *Manager) List() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.store.Tokens))
	for _, rec := range m.store.Tokens {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Symbol) < strings.ToLower(out[j].Symbol)
	})
	return out
}

// persist writes the store to disk. Callers must hold m.mu.
func (m *Manager) persist() error {
	if err := os.MkdirAll(filepath.Dir(m.path), constants.DirectoryPerm); err != nil {
		return fmt.Errorf("mkdir tokens dir: %w", err)
	}
	b, err := json.MarshalIndent(m.store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tokens store: %w", err)
	}
	return storedir.AtomicWriteFile(m.path, b, constants.FilePerm)
}
