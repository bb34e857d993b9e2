package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/redis/go-redis/v9"
)

var _ ledger.SequenceAllocator = (*SequenceAllocator)(nil)

const sequencePrefix = "ledger:seq:"

// SequenceAllocator asigna números con INCR. La primera vez siembra la clave con el valor
// que devuelve seed (máximo persistido) usando SETNX, así que varias instancias no repiten números.
// Un número asignado en una transacción que luego se revierte queda como hueco.
type SequenceAllocator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSequenceAllocator ttl > 0 hace que las claves expiren sin uso y se vuelvan a sembrar desde la base.
func NewSequenceAllocator(client *redis.Client, ttl time.Duration) *SequenceAllocator {
	return &SequenceAllocator{client: client, ttl: ttl}
}

func (a *SequenceAllocator) Next(ctx context.Context, key string, seed repository.SeedFunc) (int64, error) {
	k := sequencePrefix + key
	exists, err := a.client.Exists(ctx, k).Result()
	if err != nil {
		return 0, fmt.Errorf("redis exists %s: %w", k, err)
	}
	if exists == 0 {
		start, err := seed(ctx)
		if err != nil {
			return 0, err
		}
		if err := a.client.SetNX(ctx, k, start, a.ttl).Err(); err != nil {
			return 0, fmt.Errorf("redis setnx %s: %w", k, err)
		}
	}

	var incr *redis.IntCmd
	_, err = a.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		if a.ttl > 0 {
			pipe.Expire(ctx, k, a.ttl)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", k, err)
	}
	return incr.Val(), nil
}
