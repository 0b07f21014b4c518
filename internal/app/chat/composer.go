package chat

import (
	"context"
	"strings"

	"digame/internal/app/message"
	"digame/internal/app/user"
	"digame/internal/pkg/errs"
)

// SetInput replaces the composer draft. Every call counts as a keystroke for the typing flag.
func (c *Client) SetInput(text string) {
	c.typing.Keystroke(c.now())

	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

// SetReply quotes m in the next message. System messages cannot be quoted.
func (c *Client) SetReply(m message.Message) error {
	if m.IsSystem {
		return errs.NewError(errs.ErrInvalidParams)
	}

	snapshot := m.Snapshot()

	c.mu.Lock()
	c.reply = &snapshot
	c.mu.Unlock()

	return nil
}

// ClearReply drops the pending quote.
func (c *Client) ClearReply() {
	c.mu.Lock()
	c.reply = nil
	c.mu.Unlock()
}

// Outgoing is a draft claimed for sending by BeginSend.
type Outgoing struct {
	sender user.Registration
	text   string
	reply  *message.ReplySnapshot
}

// Text returns the claimed draft.
func (o *Outgoing) Text() string {
	return o.text
}

// BeginSend claims the composer draft and quote and marks a send in flight. It returns nil
// without touching anything when the draft is blank or another send is in flight. A non-nil
// Outgoing must be handed to Deliver.
func (c *Client) BeginSend() (*Outgoing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(c.input) == "" || c.sending {
		return nil, nil
	}

	if c.user == nil {
		return nil, errs.NewError(errs.ErrNotAuthenticated)
	}

	out := &Outgoing{sender: *c.user, text: c.input, reply: c.reply}

	c.input = ""
	c.reply = nil
	c.sending = true

	return out, nil
}

// Deliver appends the claimed draft to the document and ends the in-flight send.
//
// The draft and quote were cleared by BeginSend, so a failed delivery loses the message: the
// failure is logged and returned for the caller's information only.
func (c *Client) Deliver(ctx context.Context, out *Outgoing) (*message.Message, error) {
	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	doc, err := c.store.Fetch(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Send: failed to fetch document. Message dropped.")
		return nil, errs.NewError(errs.ErrStoreUnavailable)
	}

	msg := message.New(out.sender, out.text, out.reply, c.now())
	updated := doc.WithMessage(msg)

	if err := c.store.Overwrite(ctx, updated); err != nil {
		c.logger.Warn().Err(err).Str("message_id", msg.ID).Msg("Send: failed to write document. Message dropped.")
		return nil, errs.NewError(errs.ErrStoreUnavailable)
	}

	c.mu.Lock()
	c.messages = updated.Messages
	c.mu.Unlock()

	c.logger.Debug().Str("message_id", msg.ID).Int("window", len(updated.Messages)).Msg("Message sent.")
	return &msg, nil
}

// Send publishes the composer draft. It returns (nil, nil) without touching anything when the
// draft is blank or another send is in flight.
func (c *Client) Send(ctx context.Context) (*message.Message, error) {
	out, err := c.BeginSend()
	if err != nil || out == nil {
		return nil, err
	}
	return c.Deliver(ctx, out)
}
