package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digame/internal/app/docstore"
	"digame/internal/app/message"
	"digame/internal/app/user"
	"digame/internal/pkg/errs"
)

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.EmptyDocument())

	reg, err := f.client.Register(ctx, "ana", "x", "")
	require.NoError(t, err)
	assert.Equal(t, user.Registration{Nickname: "ana", Password: "x"}, reg)

	doc := f.doc(t)
	assert.Equal(t, reg, doc.Registered["ana"])
	require.Len(t, doc.Messages, 1)
	assert.True(t, doc.Messages[0].IsSystem)
	assert.Equal(t, message.SystemSender, doc.Messages[0].Sender)
	assert.Equal(t, "ana é o novo membro da realeza!", doc.Messages[0].Text)

	assert.Equal(t, &reg, f.client.CurrentUser())
	assert.Equal(t, &reg, f.sessions.reg)

	other := f.second()
	got, err := other.Login(ctx, "ana", "x")
	require.NoError(t, err)
	assert.Equal(t, reg, got)

	_, err = other.Login(ctx, "ana", "y")
	assert.True(t, errs.HasCode(err, errs.ErrInvalidCredentials))

	_, err = other.Login(ctx, "nobody", "x")
	assert.True(t, errs.HasCode(err, errs.ErrInvalidCredentials))
}

func TestRegisterTrimsAndRejectsBlank(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.EmptyDocument())

	_, err := f.client.Register(ctx, "   ", "x", "")
	assert.True(t, errs.HasCode(err, errs.ErrInvalidParams))

	_, err = f.client.Register(ctx, "ana", " ", "")
	assert.True(t, errs.HasCode(err, errs.ErrInvalidParams))
	assert.Zero(t, f.store.Writes())

	reg, err := f.client.Register(ctx, "  ana ", " x ", "data:image/png;base64,AA==")
	require.NoError(t, err)
	assert.Equal(t, "ana", reg.Nickname)
	assert.Equal(t, "x", reg.Password)
	assert.Equal(t, "data:image/png;base64,AA==", reg.Avatar)
}

func TestRegisterRejectsTakenNickname(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.EmptyDocument().WithRegistration(user.Registration{Nickname: "ana", Password: "x"}))

	writes := f.store.Writes()
	_, err := f.client.Register(ctx, "ana", "other", "")
	assert.True(t, errs.HasCode(err, errs.ErrNicknameTaken))
	assert.Equal(t, writes, f.store.Writes())
	assert.Nil(t, f.client.CurrentUser())
}

func TestRegisterStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, docstore.EmptyDocument())
	f.store.Fail(errOffline)

	_, err := f.client.Register(ctx, "ana", "x", "")
	assert.True(t, errs.HasCode(err, errs.ErrStoreUnavailable))
	assert.Nil(t, f.client.CurrentUser())

	_, err = f.client.Login(ctx, "ana", "x")
	assert.True(t, errs.HasCode(err, errs.ErrStoreUnavailable))
}

func TestRegisterKeepsSessionWhenPersistFails(t *testing.T) {
	f := newFixture(t, docstore.EmptyDocument())
	f.sessions.saveErr = errOffline

	_, err := f.client.Register(context.Background(), "ana", "x", "")
	require.NoError(t, err)
	assert.NotNil(t, f.client.CurrentUser())
}

func TestRestoreAndLogout(t *testing.T) {
	f := newFixture(t, docstore.EmptyDocument())

	ok, err := f.client.Restore()
	require.NoError(t, err)
	assert.False(t, ok)

	f.sessions.reg = &user.Registration{Nickname: "bia", Password: "p"}
	ok, err = f.client.Restore()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "bia", f.client.CurrentUser().Nickname)
	assert.Zero(t, f.store.Writes(), "restoring does not touch the shared document")

	f.client.SetInput("draft")
	require.NoError(t, f.client.Logout())

	view := f.client.Snapshot()
	assert.Nil(t, view.User)
	assert.Empty(t, view.Input)
	assert.False(t, view.Typing)
	assert.Nil(t, f.sessions.reg)
}

func TestRestoreSessionStorageFailure(t *testing.T) {
	f := newFixture(t, docstore.EmptyDocument())
	f.sessions.loadErr = errOffline

	ok, err := f.client.Restore()
	assert.False(t, ok)
	assert.True(t, errs.HasCode(err, errs.ErrSessionStorage))
}
