/*
Package bin implements the server side of the shared document: named JSON "bins" that clients
read whole and overwrite whole.

The Service validates and routes bin operations to a Repository. Repositories only move opaque
JSON bytes; they never parse them.
*/
package bin

import (
	"context"
	"errors"
	"maps"
	"sync"
)

// ErrNotFound is returned by a Repository when no bin is stored under the requested id.
var ErrNotFound = errors.New("bin not found")

// Repository persists bin bodies by id.
type Repository interface {
	// Load returns the stored body of id, or ErrNotFound.
	Load(ctx context.Context, id string) ([]byte, error)

	// Save creates or replaces the body of id.
	Save(ctx context.Context, id string, body []byte) error
}

// MemoryRepository keeps bins in a map. It is safe for concurrent use and loses everything on restart.
type MemoryRepository struct {
	mu   sync.RWMutex
	bins map[string][]byte
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bins: make(map[string][]byte)}
}

// Load implements Repository.
func (m *MemoryRepository) Load(_ context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	body, ok := m.bins[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), body...), nil
}

// Save implements Repository.
func (m *MemoryRepository) Save(_ context.Context, id string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bins[id] = append([]byte(nil), body...)
	return nil
}

// IDs returns the ids of all stored bins.
func (m *MemoryRepository) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.bins))
	for id := range maps.Keys(m.bins) {
		ids = append(ids, id)
	}
	return ids
}
