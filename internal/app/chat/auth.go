package chat

import (
	"context"
	"fmt"
	"strings"

	"digame/internal/app/docstore"
	"digame/internal/app/message"
	"digame/internal/app/user"
	"digame/internal/pkg/errs"
)

// NewMemberAnnouncement is the system message posted when somebody registers.
const NewMemberAnnouncement = "%s é o novo membro da realeza!"

// Register creates an account in the shared document, signs it in and announces it.
// Credentials are trimmed, stored and later compared in plaintext.
func (c *Client) Register(ctx context.Context, nickname, password, avatar string) (user.Registration, error) {
	nick, pass := strings.TrimSpace(nickname), strings.TrimSpace(password)
	if nick == "" || pass == "" {
		return user.Registration{}, errs.NewError(errs.ErrInvalidParams)
	}

	doc, err := c.store.Fetch(ctx)
	if err != nil {
		c.logger.Error().Err(err).Str("nickname", nick).Msg("Register: failed to fetch document.")
		return user.Registration{}, errs.NewError(errs.ErrStoreUnavailable)
	}

	if _, exists := doc.Registered[nick]; exists {
		c.logger.Warn().Str("nickname", nick).Msg("Register: nickname already taken.")
		return user.Registration{}, errs.NewError(errs.ErrNicknameTaken)
	}

	reg := user.Registration{Nickname: nick, Password: pass, Avatar: avatar}
	updated := doc.WithRegistration(reg)

	if err := c.store.Overwrite(ctx, updated); err != nil {
		c.logger.Error().Err(err).Str("nickname", nick).Msg("Register: failed to write document.")
		return user.Registration{}, errs.NewError(errs.ErrStoreUnavailable)
	}

	c.signIn(reg)
	c.logger.Info().Str("nickname", nick).Msg("Registered new member.")

	c.postSystemMessage(ctx, fmt.Sprintf(NewMemberAnnouncement, nick), updated)

	return reg, nil
}

// Login checks the credentials against the shared document and signs the account in.
func (c *Client) Login(ctx context.Context, nickname, password string) (user.Registration, error) {
	nick, pass := strings.TrimSpace(nickname), strings.TrimSpace(password)
	if nick == "" || pass == "" {
		return user.Registration{}, errs.NewError(errs.ErrInvalidParams)
	}

	doc, err := c.store.Fetch(ctx)
	if err != nil {
		c.logger.Error().Err(err).Str("nickname", nick).Msg("Login: failed to fetch document.")
		return user.Registration{}, errs.NewError(errs.ErrStoreUnavailable)
	}

	saved, ok := doc.Registered[nick]
	if !ok || saved.Password != pass {
		c.logger.Warn().Str("nickname", nick).Bool("known", ok).Msg("Login: invalid credentials.")
		return user.Registration{}, errs.NewError(errs.ErrInvalidCredentials)
	}

	c.signIn(saved)
	c.logger.Info().Str("nickname", nick).Msg("Signed in.")

	return saved, nil
}

// Restore signs in the locally persisted session, if any, without asking the shared document.
// It reports whether a session was restored.
func (c *Client) Restore() (bool, error) {
	reg, err := c.sessions.Load()
	if err != nil {
		c.logger.Error().Err(err).Msg("Restore: failed to load session.")
		return false, errs.NewError(errs.ErrSessionStorage)
	}
	if reg == nil {
		return false, nil
	}

	c.mu.Lock()
	c.user = reg
	c.mu.Unlock()

	c.logger.Info().Str("nickname", reg.Nickname).Msg("Session restored.")
	return true, nil
}

// Logout forgets the local session. The presence record stays in the shared document
// until it ages out of the presence window on other clients.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.user = nil
	c.input = ""
	c.reply = nil
	c.mu.Unlock()

	c.typing.Reset()

	if err := c.sessions.Clear(); err != nil {
		c.logger.Error().Err(err).Msg("Logout: failed to clear session.")
		return errs.NewError(errs.ErrSessionStorage)
	}

	return nil
}

// signIn makes reg the current user and persists it. A persistence failure is logged only:
// the user stays signed in for this run.
func (c *Client) signIn(reg user.Registration) {
	c.mu.Lock()
	c.user = &reg
	c.mu.Unlock()

	if err := c.sessions.Save(reg); err != nil {
		c.logger.Warn().Err(err).Str("nickname", reg.Nickname).Msg("Failed to persist session.")
	}
}

// postSystemMessage appends a system announcement on top of base, the document as this
// client last wrote it, without fetching again. Failures are logged and dropped.
func (c *Client) postSystemMessage(ctx context.Context, text string, base docstore.Document) {
	updated := base.WithMessage(message.NewSystem(text, c.now()))

	if err := c.store.Overwrite(ctx, updated); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to post system message.")
	}
}
