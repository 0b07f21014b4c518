package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digame/internal/app/docstore"
	"digame/internal/app/message"
	"digame/internal/app/user"
)

func TestSyncAnonymousReadsOnly(t *testing.T) {
	f := newFixture(t, docstore.EmptyDocument().WithMessage(message.Message{ID: "m1", Sender: "bia", Text: "hi"}))
	writes := f.store.Writes()

	require.NoError(t, f.client.Sync(context.Background()))

	view := f.client.Snapshot()
	require.Len(t, view.Messages, 1)
	assert.Equal(t, "hi", view.Messages[0].Text)
	assert.Equal(t, 1, view.OnlineCount)
	assert.Equal(t, writes, f.store.Writes())
}

func TestSyncPublishesHeartbeat(t *testing.T) {
	f := signedIn(t, docstore.EmptyDocument())

	require.NoError(t, f.client.Sync(context.Background()))

	p, ok := f.doc(t).Users["ana"]
	require.True(t, ok)
	assert.Equal(t, f.clock.Now().UnixMilli(), p.LastSeen)
	assert.Equal(t, "ana", p.Name)
	assert.False(t, p.Typing)

	f.client.SetInput("h")
	require.NoError(t, f.client.Sync(context.Background()))
	assert.True(t, f.doc(t).Users["ana"].Typing)

	f.clock.Advance(TypingIdleTimeout)
	require.NoError(t, f.client.Sync(context.Background()))
	assert.False(t, f.doc(t).Users["ana"].Typing)
}

func TestSyncDerivesPresence(t *testing.T) {
	f := signedIn(t, docstore.EmptyDocument())
	now := f.clock.Now()

	doc := docstore.EmptyDocument().
		WithPresence("bia", user.Presence{Name: "bia", Typing: true, LastSeen: now.Add(-time.Second).UnixMilli()}).
		WithPresence("caio", user.Presence{Name: "caio", LastSeen: now.Add(-10 * time.Second).UnixMilli()}).
		WithPresence("duda", user.Presence{Name: "duda", LastSeen: now.Add(-time.Minute).UnixMilli()})
	require.NoError(t, f.store.Overwrite(context.Background(), doc))

	require.NoError(t, f.client.Sync(context.Background()))

	view := f.client.Snapshot()
	assert.Equal(t, 2, view.OnlineCount, "presence comes from the fetched document, before the heartbeat")
	assert.True(t, view.SomeoneTyping)

	require.NoError(t, f.client.Sync(context.Background()))
	assert.Equal(t, 3, f.client.Snapshot().OnlineCount)
}

func TestSyncTypingWindowSeenByOthers(t *testing.T) {
	f := signedIn(t, docstore.EmptyDocument())
	bia := f.second()
	_, err := bia.Register(context.Background(), "bia", "p", "")
	require.NoError(t, err)

	f.client.SetInput("typing...")
	require.NoError(t, f.client.Sync(context.Background()))

	require.NoError(t, bia.Sync(context.Background()))
	assert.True(t, bia.Snapshot().SomeoneTyping)

	f.clock.Advance(5 * time.Second)
	require.NoError(t, bia.Sync(context.Background()))
	assert.False(t, bia.Snapshot().SomeoneTyping)
}

func TestSyncFetchFailureKeepsView(t *testing.T) {
	f := signedIn(t, docstore.EmptyDocument().WithMessage(message.Message{ID: "m1", Text: "kept"}))
	require.NoError(t, f.client.Sync(context.Background()))
	before := f.client.Snapshot()

	f.store.Fail(errOffline)
	assert.ErrorIs(t, f.client.Sync(context.Background()), errOffline)
	assert.Equal(t, before.Messages, f.client.Snapshot().Messages)
	assert.Equal(t, before.OnlineCount, f.client.Snapshot().OnlineCount)
}

func TestSyncKeepsFieldsAbsentFromDocument(t *testing.T) {
	f := newFixture(t, docstore.EmptyDocument().WithMessage(message.Message{ID: "m1", Text: "kept"}))
	require.NoError(t, f.client.Sync(context.Background()))

	require.NoError(t, f.store.Overwrite(context.Background(), docstore.Document{}))
	require.NoError(t, f.client.Sync(context.Background()))

	view := f.client.Snapshot()
	require.Len(t, view.Messages, 1)
	assert.Equal(t, "kept", view.Messages[0].Text)
}

// racingStore runs interleave once, right after the first Fetch returns.
type racingStore struct {
	*docstore.MemoryStore
	interleave func()
}

func (s *racingStore) Fetch(ctx context.Context) (docstore.Document, error) {
	doc, err := s.MemoryStore.Fetch(ctx)
	if s.interleave != nil {
		fn := s.interleave
		s.interleave = nil
		fn()
	}
	return doc, err
}

func TestHeartbeatCanOverwriteConcurrentSend(t *testing.T) {
	mem, err := docstore.NewMemoryStore(docstore.EmptyDocument())
	require.NoError(t, err)

	clock := newFakeClock()
	store := &racingStore{MemoryStore: mem}

	ana := NewClient(store, &memSessions{reg: &user.Registration{Nickname: "ana", Password: "x"}}, WithClock(clock.Now))
	_, err = ana.Restore()
	require.NoError(t, err)

	bia := NewClient(mem, &memSessions{reg: &user.Registration{Nickname: "bia", Password: "p"}}, WithClock(clock.Now))
	_, err = bia.Restore()
	require.NoError(t, err)

	store.interleave = func() {
		bia.SetInput("lost in the race")
		_, err := bia.Send(context.Background())
		require.NoError(t, err)
	}

	require.NoError(t, ana.Sync(context.Background()))

	doc, err := mem.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Messages, "the heartbeat rewrote the document fetched before bia's send")
	assert.Contains(t, doc.Users, "ana")
}
