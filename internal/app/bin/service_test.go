package bin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digame/internal/app/docstore"
	"digame/internal/pkg/errs"
	"digame/internal/pkg/randx"
)

type failingRepository struct{}

func (failingRepository) Load(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingRepository) Save(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func TestServiceCreateStoresEmptyDocument(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	svc := NewService(repo)

	id, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.True(t, randx.IsValidBinID(id))
	assert.Equal(t, []string{id}, repo.IDs())

	body, err := svc.Get(ctx, id)
	require.NoError(t, err)

	doc, err := docstore.Decode(body)
	require.NoError(t, err)
	assert.Equal(t, docstore.EmptyDocument(), doc)
}

func TestServiceGetMissing(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.Get(context.Background(), randx.BinID())
	assert.True(t, errs.HasCode(err, errs.ErrBinNotFound))

	_, err = svc.Get(context.Background(), "../../etc/passwd")
	assert.True(t, errs.HasCode(err, errs.ErrBinNotFound))
}

func TestServicePutUpsertsCompactedJSON(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepository())
	id := randx.BinID()

	stored, err := svc.Put(ctx, id, []byte("{\n  \"messages\": [ ],\n  \"x\": 1\n}"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"messages":[],"x":1}`, string(stored))
	assert.Equal(t, `{"messages":[],"x":1}`, string(stored))

	body, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, stored, body)

	_, err = svc.Put(ctx, id, []byte(`{"messages":[{"id":"m1"}]}`))
	require.NoError(t, err)

	body, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.JSONEq(t, `{"messages":[{"id":"m1"}]}`, string(body))
}

func TestServicePutRejectsInvalidBodies(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	id := randx.BinID()

	for _, body := range []string{"", "   ", "{", `{"a":1} {"b":2}`, "nope"} {
		_, err := svc.Put(context.Background(), id, []byte(body))
		assert.True(t, errs.HasCode(err, errs.ErrInvalidJSONFormat), "body %q", body)
	}

	_, err := svc.Put(context.Background(), "short", []byte(`{}`))
	assert.True(t, errs.HasCode(err, errs.ErrInvalidParams))
}

func TestServiceStorageFailures(t *testing.T) {
	ctx := context.Background()
	svc := NewService(failingRepository{})

	_, err := svc.Create(ctx)
	assert.True(t, errs.HasCode(err, errs.ErrBinStorageFailed))

	_, err = svc.Get(ctx, randx.BinID())
	assert.True(t, errs.HasCode(err, errs.ErrBinStorageFailed))

	_, err = svc.Put(ctx, randx.BinID(), []byte(`{}`))
	assert.True(t, errs.HasCode(err, errs.ErrBinStorageFailed))
}

func TestMemoryRepositoryCopiesBodies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	body := []byte(`{"a":1}`)
	require.NoError(t, repo.Save(ctx, "id", body))
	body[2] = 'b'

	got, err := repo.Load(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	got[2] = 'c'
	again, err := repo.Load(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(again))

	_, err = repo.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
