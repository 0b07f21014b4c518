/*
Package docstore is the client side of the shared JSON document.

The whole chat lives in one document with three top-level fields ("registered", "users",
"messages"). It is always fetched whole, changed in memory and written back whole: there is
no partial update and no versioning, so the last overwrite wins.
*/
package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"digame/internal/app/message"
	"digame/internal/app/user"
)

const (
	fieldRegistered = "registered"
	fieldUsers      = "users"
	fieldMessages   = "messages"
)

// Document is the in-memory form of the shared document.
// A nil field means the field was absent (or null) in the fetched JSON; an empty
// non-nil field means it was present and empty. Unknown top-level fields are kept
// and written back untouched.
type Document struct {
	Registered map[string]user.Registration
	Users      map[string]user.Presence
	Messages   []message.Message

	extra map[string]json.RawMessage
}

// EmptyDocument returns the empty shell used when the store holds nothing.
func EmptyDocument() Document {
	return Document{
		Registered: map[string]user.Registration{},
		Users:      map[string]user.Presence{},
		Messages:   []message.Message{},
	}
}

// Decode parses a fetched body. An empty body or a JSON null yields the empty shell.
func Decode(body []byte) (Document, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return EmptyDocument(), nil
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, err
	}

	return doc, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Document) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*d = Document{}

	for key, raw := range fields {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			if key != fieldRegistered && key != fieldUsers && key != fieldMessages {
				d.setExtra(key, raw)
			}
			continue
		}

		var err error
		switch key {
		case fieldRegistered:
			err = json.Unmarshal(raw, &d.Registered)
		case fieldUsers:
			err = json.Unmarshal(raw, &d.Users)
		case fieldMessages:
			err = json.Unmarshal(raw, &d.Messages)
		default:
			d.setExtra(key, raw)
		}

		if err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
	}

	return nil
}

// MarshalJSON implements json.Marshaler. Nil fields are left out.
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.extra)+3)

	for key, raw := range d.extra {
		out[key] = raw
	}

	if d.Registered != nil {
		out[fieldRegistered] = d.Registered
	}
	if d.Users != nil {
		out[fieldUsers] = d.Users
	}
	if d.Messages != nil {
		out[fieldMessages] = d.Messages
	}

	return json.Marshal(out)
}

func (d *Document) setExtra(key string, raw json.RawMessage) {
	if d.extra == nil {
		d.extra = make(map[string]json.RawMessage)
	}
	d.extra[key] = slices.Clone(raw)
}

// Clone returns a copy whose maps and slices can be changed without touching d.
func (d Document) Clone() Document {
	return Document{
		Registered: maps.Clone(d.Registered),
		Users:      maps.Clone(d.Users),
		Messages:   slices.Clone(d.Messages),
		extra:      maps.Clone(d.extra),
	}
}

// WithRegistration returns a copy of d with reg stored under its nickname.
func (d Document) WithRegistration(reg user.Registration) Document {
	next := d.Clone()
	if next.Registered == nil {
		next.Registered = make(map[string]user.Registration, 1)
	}
	next.Registered[reg.Nickname] = reg
	return next
}

// WithPresence returns a copy of d with p stored under nickname.
func (d Document) WithPresence(nickname string, p user.Presence) Document {
	next := d.Clone()
	if next.Users == nil {
		next.Users = make(map[string]user.Presence, 1)
	}
	next.Users[nickname] = p
	return next
}

// WithMessage returns a copy of d with m appended to the capped message window.
func (d Document) WithMessage(m message.Message) Document {
	next := d.Clone()
	next.Messages = message.Append(d.Messages, m)
	return next
}
