/*
Package user contains the identity and presence records stored in the shared document.

A nickname is the only identity key: there are no numeric user IDs. Registration is the
immutable account record under "registered"; Presence is the heartbeat record each active
client upserts under "users".
*/
package user

import (
	"time"

	"digame/internal/pkg/jsonx"
)

// Registration is the account record kept under the document's "registered" map.
// It doubles as the locally persisted session record.
type Registration struct {
	// Nickname is the unique, case-sensitive display name and identity key.
	Nickname string `json:"nickname"`

	// Password is stored and compared in plaintext, exactly as the shared document holds it.
	Password string `json:"password"`

	// Avatar is a data URL of the profile picture, or empty.
	Avatar string `json:"avatar"`

	// members written by other clients, kept as is.
	extra jsonx.Extra
}

type registrationJSON Registration

var registrationFields = []string{"nickname", "password", "avatar"}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Registration) UnmarshalJSON(data []byte) error {
	known := registrationJSON(*r)
	extra, err := jsonx.Split(data, &known, registrationFields...)
	if err != nil {
		return err
	}
	*r = Registration(known)
	r.extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r Registration) MarshalJSON() ([]byte, error) {
	return jsonx.Merge(registrationJSON(r), r.extra)
}

// Presence is the heartbeat record kept under the document's "users" map.
// Online and typing states are derived from LastSeen by every reader; they are never stored.
type Presence struct {
	// LastSeen is the heartbeat time in epoch milliseconds.
	LastSeen int64 `json:"lastSeen"`

	// Typing is the publisher's local typing flag at heartbeat time.
	Typing bool `json:"typing"`

	// Name repeats the nickname the record is keyed by.
	Name string `json:"name"`

	// Avatar is the publisher's avatar data URL.
	Avatar string `json:"avatar"`

	extra jsonx.Extra
}

type presenceJSON Presence

var presenceFields = []string{"lastSeen", "typing", "name", "avatar"}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Presence) UnmarshalJSON(data []byte) error {
	known := presenceJSON(*p)
	extra, err := jsonx.Split(data, &known, presenceFields...)
	if err != nil {
		return err
	}
	*p = Presence(known)
	p.extra = extra
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Presence) MarshalJSON() ([]byte, error) {
	return jsonx.Merge(presenceJSON(p), p.extra)
}

// Heartbeat builds the presence record reg publishes at now.
func Heartbeat(reg Registration, now time.Time, typing bool) Presence {
	return Presence{
		LastSeen: now.UnixMilli(),
		Typing:   typing,
		Name:     reg.Nickname,
		Avatar:   reg.Avatar,
	}
}

// Since returns how long ago, relative to now, the presence record was refreshed.
// A LastSeen in the future (clock skew between clients) yields a negative duration.
func (p Presence) Since(now time.Time) time.Duration {
	return time.Duration(now.UnixMilli()-p.LastSeen) * time.Millisecond
}
