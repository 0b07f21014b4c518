/*
Package tui renders the chat for terminals: plain lines for the streaming commands and a
tview application for interactive chatting.
*/
package tui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"digame/internal/app/chat"
	"digame/internal/app/message"
)

const (
	// QuoteMaxRunes caps how much of a quoted text is repeated under a reply.
	QuoteMaxRunes = 60

	// TypingNotice is shown while somebody else is typing.
	TypingNotice = "someone is typing..."
)

// Lines renders m as plain text. A reply yields a quote line before the message line.
func Lines(m message.Message) []string {
	if m.IsSystem {
		return []string{fmt.Sprintf("[%s] * %s", m.Time, m.Text)}
	}

	var lines []string
	if m.ReplyTo != nil {
		lines = append(lines, fmt.Sprintf("        ↩ %s: %s", m.ReplyTo.Sender, Truncate(m.ReplyTo.Text, QuoteMaxRunes)))
	}
	return append(lines, fmt.Sprintf("[%s] %s: %s", m.Time, m.Sender, m.Text))
}

// Markup renders m with tview color tags. Messages sent by viewer are highlighted.
func Markup(m message.Message, viewer string) string {
	if m.IsSystem {
		return fmt.Sprintf("[gray][%s] * %s[-]", m.Time, tview.Escape(m.Text))
	}

	color := "aqua"
	if m.Sender == viewer {
		color = "green"
	}

	var b strings.Builder
	if m.ReplyTo != nil {
		fmt.Fprintf(&b, "[gray]        ↩ %s: %s[-]\n",
			tview.Escape(m.ReplyTo.Sender), tview.Escape(Truncate(m.ReplyTo.Text, QuoteMaxRunes)))
	}
	fmt.Fprintf(&b, "[gray]%s[-] [%s::b]%s[-::-] %s", tview.Escape("["+m.Time+"]"), color, tview.Escape(m.Sender), tview.Escape(m.Text))
	return b.String()
}

// Status renders the presence line shown above the messages.
func Status(v chat.View) string {
	parts := []string{fmt.Sprintf("%d online", v.OnlineCount)}
	if v.User != nil {
		parts = append([]string{v.User.Nickname}, parts...)
	}
	if v.SomeoneTyping {
		parts = append(parts, TypingNotice)
	}
	return strings.Join(parts, " · ")
}

// Truncate shortens s to at most limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 1 {
		return string(runes[:limit])
	}
	return string(runes[:limit-1]) + "…"
}

// Tracker remembers which messages were already shown.
type Tracker struct {
	seen map[string]struct{}
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]struct{})}
}

// Unseen returns the messages of msgs not returned before, in order, and marks them seen.
func (t *Tracker) Unseen(msgs []message.Message) []message.Message {
	var fresh []message.Message
	for _, m := range msgs {
		if _, ok := t.seen[m.ID]; ok {
			continue
		}
		t.seen[m.ID] = struct{}{}
		fresh = append(fresh, m)
	}
	return fresh
}
