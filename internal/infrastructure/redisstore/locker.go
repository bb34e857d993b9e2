package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/redis/go-redis/v9"
)

var _ ledger.Locker = (*Locker)(nil)

const lockPrefix = "ledger:lock:"

// Locker locks con redislock (sin reintentos: si otro proceso lo tiene, falla de inmediato).
type Locker struct {
	client *redislock.Client
}

// NewLocker envuelve el cliente de Redis.
func NewLocker(client *redis.Client) *Locker {
	return &Locker{client: redislock.New(client)}
}

func (l *Locker) Obtain(ctx context.Context, key string, ttl time.Duration) (ledger.Lock, error) {
	lock, err := l.client.Obtain(ctx, lockPrefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ledger.ErrLockNotObtained
	}
	if err != nil {
		return nil, err
	}
	return lock, nil
}
