package chat

import (
	"time"

	"digame/internal/app/user"
)

const (
	// PresenceWindow is how recent a heartbeat must be for its user to count as online.
	PresenceWindow = 15 * time.Second

	// TypingWindow is how recent a heartbeat must be for its typing flag to count.
	// Typing goes stale faster than presence.
	TypingWindow = 5 * time.Second
)

// Presence is what a viewer derives from the "users" map on every poll.
type Presence struct {
	// OnlineCount is the number of users seen within PresenceWindow, or 1 when nobody
	// was: the viewer counts as present before their own heartbeat lands.
	OnlineCount int

	// SomeoneTyping reports whether a user other than the viewer is typing.
	SomeoneTyping bool
}

// DerivePresence computes the online count and typing signal of users as seen by viewer at now.
func DerivePresence(users map[string]user.Presence, viewer string, now time.Time) Presence {
	var p Presence

	for _, u := range users {
		since := u.Since(now)

		if since < PresenceWindow {
			p.OnlineCount++
		}

		if u.Typing && u.Name != viewer && since < TypingWindow {
			p.SomeoneTyping = true
		}
	}

	if p.OnlineCount == 0 {
		p.OnlineCount = 1
	}

	return p
}
