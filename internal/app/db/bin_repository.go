package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"digame/internal/app/bin"
)

const (
	loadBinSQL = `SELECT body FROM bins WHERE id = $1`

	saveBinSQL = `
INSERT INTO bins (id, body) VALUES ($1, $2::jsonb)
ON CONFLICT (id) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`
)

// Querier is the subset of *pgxpool.Pool used by BinRepository.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BinRepository implements bin.Repository on the bins table.
type BinRepository struct {
	q Querier
}

// NewBinRepository returns a repository running its queries on q.
func NewBinRepository(q Querier) *BinRepository {
	return &BinRepository{q: q}
}

// Load implements bin.Repository.
func (r *BinRepository) Load(ctx context.Context, id string) ([]byte, error) {
	var body []byte
	if err := r.q.QueryRow(ctx, loadBinSQL, id).Scan(&body); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, bin.ErrNotFound
		}
		return nil, fmt.Errorf("load bin %s: %w", id, err)
	}
	return body, nil
}

// Save implements bin.Repository.
func (r *BinRepository) Save(ctx context.Context, id string, body []byte) error {
	if _, err := r.q.Exec(ctx, saveBinSQL, id, string(body)); err != nil {
		return fmt.Errorf("save bin %s: %w", id, err)
	}
	return nil
}
