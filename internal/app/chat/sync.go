package chat

import (
	"context"

	"digame/internal/app/user"
)

// Sync runs one poll cycle: fetch the document, refresh the local view from it and, when
// signed in, publish a heartbeat on top of the fetched document.
//
// A failed fetch leaves the view untouched and is returned. A failed heartbeat is only logged.
// The heartbeat is based on the fetched document, so it can overwrite messages appended by
// others between the fetch and the write.
func (c *Client) Sync(ctx context.Context) error {
	doc, err := c.store.Fetch(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Sync: fetch failed, keeping current view.")
		return err
	}

	now := c.now()

	c.mu.Lock()

	if doc.Messages != nil {
		c.messages = doc.Messages
	}

	viewer := ""
	if c.user != nil {
		viewer = c.user.Nickname
	}

	if doc.Users != nil {
		c.presence = DerivePresence(doc.Users, viewer, now)
	}

	me := c.currentUserLocked()

	c.mu.Unlock()

	if me == nil {
		return nil
	}

	beat := c.now()
	heartbeat := user.Heartbeat(*me, beat, c.typing.Active(beat))

	if err := c.store.Overwrite(ctx, doc.WithPresence(me.Nickname, heartbeat)); err != nil {
		c.logger.Debug().Err(err).Str("nickname", me.Nickname).Msg("Sync: heartbeat write failed.")
	}

	return nil
}
