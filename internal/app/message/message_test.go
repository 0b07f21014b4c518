package message

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digame/internal/app/user"
)

func makeMessages(n int) []Message {
	msgs := make([]Message, 0, n)
	for i := range n {
		msgs = append(msgs, Message{ID: fmt.Sprintf("m%d", i), Sender: "ana", Text: fmt.Sprintf("text %d", i)})
	}
	return msgs
}

func TestAppendLength(t *testing.T) {
	for _, n := range []int{0, 1, 48, 49, 50, 51, 120} {
		t.Run(fmt.Sprintf("prev=%d", n), func(t *testing.T) {
			prev := makeMessages(n)
			next := Append(prev, Message{ID: "new"})

			require.Len(t, next, min(n+1, MaxMessages))
			assert.Equal(t, "new", next[len(next)-1].ID)
			assert.Len(t, prev, n, "input slice must not change")
		})
	}
}

func TestAppendDropsOldestFirst(t *testing.T) {
	prev := makeMessages(MaxMessages)
	next := Append(prev, Message{ID: "new"})

	assert.Equal(t, "m1", next[0].ID)
	assert.Equal(t, "m49", next[len(next)-2].ID)

	for i := 1; i < len(next)-1; i++ {
		assert.Equal(t, prev[i].ID, next[i-1].ID)
	}
}

func TestAppendDoesNotAliasInput(t *testing.T) {
	prev := make([]Message, 3, 10)
	copy(prev, makeMessages(3))

	a := Append(prev, Message{ID: "a"})
	b := Append(prev, Message{ID: "b"})

	assert.Equal(t, "a", a[3].ID)
	assert.Equal(t, "b", b[3].ID)
}

func TestNew(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 5, 0, 0, time.Local)
	ana := user.Registration{Nickname: "ana", Password: "x", Avatar: "data:image/png;base64,AA=="}
	reply := &ReplySnapshot{Sender: "bia", Text: "oi"}

	m := New(ana, "hello", reply, now)

	assert.True(t, strings.HasPrefix(m.ID, "msg-"))
	assert.Equal(t, "ana", m.Sender)
	assert.Equal(t, ana.Avatar, m.Avatar)
	assert.Equal(t, "hello", m.Text)
	assert.Equal(t, "09:05", m.Time)
	assert.False(t, m.IsSystem)
	require.NotNil(t, m.ReplyTo)
	assert.Equal(t, *reply, *m.ReplyTo)

	reply.Text = "changed"
	assert.Equal(t, "oi", m.ReplyTo.Text, "reply must be copied, not referenced")
}

func TestNewSystem(t *testing.T) {
	now := time.Date(2026, 10, 15, 21, 30, 0, 0, time.Local)
	m := NewSystem("ana joined", now)

	assert.Equal(t, SystemSender, m.Sender)
	assert.True(t, m.IsSystem)
	assert.Equal(t, "21:30", m.Time)
	assert.Equal(t, fmt.Sprintf("sys-%d", now.UnixMilli()), m.ID)
	assert.Nil(t, m.ReplyTo)
}

func TestReplySurvivesEviction(t *testing.T) {
	now := time.Now()
	bia := user.Registration{Nickname: "bia"}
	quoted := Message{ID: "q", Sender: "ana", Text: "original words"}

	msgs := Append(nil, quoted)
	snapshot := quoted.Snapshot()
	msgs = Append(msgs, New(bia, "replying", &snapshot, now))

	for i := range MaxMessages {
		msgs = Append(msgs, Message{ID: fmt.Sprintf("filler-%d", i)})
		if i == MaxMessages-2 {
			// the reply is still in the window, the quoted message is gone
			for _, m := range msgs {
				assert.NotEqual(t, "q", m.ID)
			}
			var found bool
			for _, m := range msgs {
				if m.Text == "replying" {
					found = true
					require.NotNil(t, m.ReplyTo)
					assert.Equal(t, "ana", m.ReplyTo.Sender)
					assert.Equal(t, "original words", m.ReplyTo.Text)
				}
			}
			assert.True(t, found)
		}
	}
}
