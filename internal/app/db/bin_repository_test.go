package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digame/internal/app/bin"
)

type fakeRow struct {
	body []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.body
	return nil
}

// fakeQuerier emulates the bins table with a map.
type fakeQuerier struct {
	rows    map[string][]byte
	err     error
	lastSQL string
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.lastSQL = sql
	if q.err != nil {
		return pgconn.CommandTag{}, q.err
	}
	q.rows[args[0].(string)] = []byte(args[1].(string))
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.lastSQL = sql
	if q.err != nil {
		return fakeRow{err: q.err}
	}
	body, ok := q.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{body: body}
}

func TestBinRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	q := &fakeQuerier{rows: map[string][]byte{}}
	repo := NewBinRepository(q)

	_, err := repo.Load(ctx, "abc")
	assert.ErrorIs(t, err, bin.ErrNotFound)

	require.NoError(t, repo.Save(ctx, "abc", []byte(`{"messages":[]}`)))
	assert.Contains(t, q.lastSQL, "ON CONFLICT (id) DO UPDATE")

	body, err := repo.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, `{"messages":[]}`, string(body))
}

func TestBinRepositoryWrapsDriverErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	repo := NewBinRepository(&fakeQuerier{rows: map[string][]byte{}, err: boom})

	_, err := repo.Load(ctx, "abc")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, bin.ErrNotFound)

	assert.ErrorIs(t, repo.Save(ctx, "abc", []byte(`{}`)), boom)
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := embedMigrations.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_create_bins.sql", entries[0].Name())
}
