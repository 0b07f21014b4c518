/*
Package chat contains the client-side protocol on top of the shared JSON document.

A Client holds the local view of the chat (signed-in user, message window, presence,
composer draft and reply quote) and keeps it in sync with the document through whole-document
read-modify-write cycles. Nothing coordinates concurrent writers: the poll heartbeat, a send and
an auth flow may each overwrite the others' changes, and the last write wins.

This file defines the Client struct, its construction and the snapshot of its view state.
*/
package chat

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"digame/internal/app/docstore"
	"digame/internal/app/message"
	"digame/internal/app/user"
	"digame/internal/pkg/logx"
)

// Sessions is the local durable storage of the signed-in identity.
type Sessions interface {
	// Load returns the persisted record, or nil when nobody is signed in.
	Load() (*user.Registration, error)

	// Save persists reg.
	Save(reg user.Registration) error

	// Clear removes the persisted record.
	Clear() error
}

// View is a point-in-time copy of the client state, ready for rendering.
type View struct {
	User          *user.Registration
	Messages      []message.Message
	OnlineCount   int
	SomeoneTyping bool
	Input         string
	Reply         *message.ReplySnapshot
	Sending       bool
	Typing        bool
}

// Option customizes a Client.
type Option func(*Client)

// WithClock replaces the wall clock used for heartbeats, message times and typing windows.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client is the chat client bound to one shared document.
type Client struct {
	// the shared document.
	store docstore.Store

	// local persistence of the signed-in user.
	sessions Sessions

	// wall clock.
	now func() time.Time

	// debounced local typing flag, published by the next heartbeat.
	typing *TypingIndicator

	// mu protects the view state below. It is never held across a store call.
	mu sync.RWMutex

	// signed-in user, nil when anonymous.
	user *user.Registration

	// the latest message window.
	messages []message.Message

	// presence derived on the latest successful poll.
	presence Presence

	// composer draft.
	input string

	// quote attached to the next message.
	reply *message.ReplySnapshot

	// whether a send is in flight.
	sending bool

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs a Client reading and writing store and persisting sessions in sessions.
func NewClient(store docstore.Store, sessions Sessions, opts ...Option) *Client {
	c := &Client{
		store:    store,
		sessions: sessions,
		now:      time.Now,
		typing:   NewTypingIndicator(TypingIdleTimeout),
		logger:   logx.Logger().With().Str("component", "chat-client").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (c *Client) CurrentUser() *user.Registration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.currentUserLocked()
}

func (c *Client) currentUserLocked() *user.Registration {
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Snapshot returns a copy of the current view state.
func (c *Client) Snapshot() View {
	now := c.now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	var reply *message.ReplySnapshot
	if c.reply != nil {
		r := *c.reply
		reply = &r
	}

	return View{
		User:          c.currentUserLocked(),
		Messages:      slices.Clone(c.messages),
		OnlineCount:   c.presence.OnlineCount,
		SomeoneTyping: c.presence.SomeoneTyping,
		Input:         c.input,
		Reply:         reply,
		Sending:       c.sending,
		Typing:        c.typing.Active(now),
	}
}
