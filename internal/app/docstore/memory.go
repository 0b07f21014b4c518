package docstore

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps the document as JSON bytes in memory, so reads and writes go through
// the same encoding as the HTTP store. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.Mutex
	body   []byte
	err    error
	writes int
}

// NewMemoryStore returns a store holding doc.
func NewMemoryStore(doc Document) (*MemoryStore, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{body: body}, nil
}

// Fetch implements Store.
func (s *MemoryStore) Fetch(_ context.Context) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return Document{}, s.err
	}
	return Decode(s.body)
}

// Overwrite implements Store.
func (s *MemoryStore) Overwrite(_ context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.body = body
	s.writes++
	return nil
}

// Fail makes every following call return err until Fail(nil) is called.
func (s *MemoryStore) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Writes returns the number of successful overwrites.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Raw returns a copy of the stored JSON.
func (s *MemoryStore) Raw() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.body...)
}
