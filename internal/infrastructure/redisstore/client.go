// Package redisstore contadores y locks distribuidos sobre Redis para varias instancias de la API.
package redisstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/redis/go-redis/v9"
)

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}
