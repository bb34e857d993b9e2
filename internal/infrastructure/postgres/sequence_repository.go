package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo contadores en ledger_sequences. Dentro de una tx el UPDATE bloquea la fila
// hasta el commit: dos transacciones no obtienen el mismo número y un rollback no deja huecos.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

func (r *SequenceRepo) Next(ctx context.Context, key string, seed repository.SeedFunc) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `UPDATE ledger_sequences SET value = value + 1 WHERE key = $1 RETURNING value`, key).Scan(&n)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("next sequence %s: %w", key, err)
	}

	start, err := seed(ctx)
	if err != nil {
		return 0, err
	}
	err = r.q.QueryRow(ctx, `
		INSERT INTO ledger_sequences (key, value) VALUES ($1, $2::bigint + 1)
		ON CONFLICT (key) DO UPDATE SET value = ledger_sequences.value + 1
		RETURNING value`, key, start).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("seed sequence %s: %w", key, err)
	}
	return n, nil
}
