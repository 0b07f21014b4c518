package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"digame/internal/app/docstore"
	"digame/internal/app/user"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 15, 12, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memSessions struct {
	mu      sync.Mutex
	reg     *user.Registration
	saveErr error
	loadErr error
}

func (s *memSessions) Load() (*user.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.reg == nil {
		return nil, nil
	}
	r := *s.reg
	return &r, nil
}

func (s *memSessions) Save(reg user.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.reg = &reg
	return nil
}

func (s *memSessions) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg = nil
	return nil
}

var errOffline = errors.New("offline")

type fixture struct {
	store    *docstore.MemoryStore
	sessions *memSessions
	clock    *fakeClock
	client   *Client
}

func newFixture(t *testing.T, doc docstore.Document) *fixture {
	t.Helper()

	store, err := docstore.NewMemoryStore(doc)
	require.NoError(t, err)

	f := &fixture{store: store, sessions: &memSessions{}, clock: newFakeClock()}
	f.client = NewClient(store, f.sessions, WithClock(f.clock.Now))
	return f
}

func (f *fixture) doc(t *testing.T) docstore.Document {
	t.Helper()
	doc, err := f.store.Fetch(context.Background())
	require.NoError(t, err)
	return doc
}

// second returns another client sharing the store, as a different browser would.
func (f *fixture) second() *Client {
	return NewClient(f.store, &memSessions{}, WithClock(f.clock.Now))
}
