/*
Package message defines chat message records and the capped message window.

Messages are kept in insertion order, which is the chat order, and every write keeps only
the most recent MaxMessages entries. A reply embeds a snapshot of the quoted message rather
than a reference, so the quote survives eviction of the original.

Members a record does not model, such as the full quoted message other clients store under
"replyTo", are kept and written back unchanged.
*/
package message

import (
	"time"

	"digame/internal/app/user"
	"digame/internal/pkg/jsonx"
	"digame/internal/pkg/randx"
)

const (
	// MaxMessages is the size of the sliding message window kept in the document.
	MaxMessages = 50

	// SystemSender is the sender name of system announcements.
	SystemSender = "System"

	// TimeLayout formats the two-digit hour and minute shown next to each message.
	TimeLayout = "15:04"
)

// ReplySnapshot is the denormalized copy of a quoted message.
type ReplySnapshot struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`

	extra jsonx.Extra
}

type replySnapshotJSON ReplySnapshot

var replySnapshotFields = []string{"sender", "text"}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ReplySnapshot) UnmarshalJSON(data []byte) error {
	known := replySnapshotJSON(*r)
	extra, err := jsonx.Split(data, &known, replySnapshotFields...)
	if err != nil {
		return err
	}
	*r = ReplySnapshot(known)
	r.extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r ReplySnapshot) MarshalJSON() ([]byte, error) {
	return jsonx.Merge(replySnapshotJSON(r), r.extra)
}

// Message is a single entry of the document's "messages" list.
type Message struct {
	ID       string         `json:"id"`
	Sender   string         `json:"sender"`
	Avatar   string         `json:"avatar,omitempty"`
	Text     string         `json:"text"`
	ReplyTo  *ReplySnapshot `json:"replyTo,omitempty"`
	Time     string         `json:"time"`
	IsSystem bool           `json:"isSystem"`

	extra jsonx.Extra
}

type messageJSON Message

var messageFields = []string{"id", "sender", "avatar", "text", "replyTo", "time", "isSystem"}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	known := messageJSON(*m)
	extra, err := jsonx.Split(data, &known, messageFields...)
	if err != nil {
		return err
	}
	*m = Message(known)
	m.extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	return jsonx.Merge(messageJSON(m), m.extra)
}

// New builds a message authored by sender at now, quoting reply when it is non-nil.
func New(sender user.Registration, text string, reply *ReplySnapshot, now time.Time) Message {
	var quoted *ReplySnapshot
	if reply != nil {
		snapshot := *reply
		quoted = &snapshot
	}

	return Message{
		ID:       randx.MessageID(now),
		Sender:   sender.Nickname,
		Avatar:   sender.Avatar,
		Text:     text,
		ReplyTo:  quoted,
		Time:     now.Format(TimeLayout),
		IsSystem: false,
	}
}

// NewSystem builds a system announcement at now.
func NewSystem(text string, now time.Time) Message {
	return Message{
		ID:       randx.SystemMessageID(now),
		Sender:   SystemSender,
		Text:     text,
		Time:     now.Format(TimeLayout),
		IsSystem: true,
	}
}

// Snapshot captures the sender and text of m for quoting.
func (m Message) Snapshot() ReplySnapshot {
	return ReplySnapshot{Sender: m.Sender, Text: m.Text}
}

// Append returns a new slice holding msgs followed by m, truncated from the front to the
// last MaxMessages entries. msgs is never modified.
func Append(msgs []Message, m Message) []Message {
	out := make([]Message, 0, min(len(msgs)+1, MaxMessages))

	start := max(len(msgs)+1-MaxMessages, 0)
	if start < len(msgs) {
		out = append(out, msgs[start:]...)
	}

	return append(out, m)
}
