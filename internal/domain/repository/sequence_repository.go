package repository

import "context"

// SeedFunc calcula el último valor ya usado de una secuencia que aún no existe.
type SeedFunc func(ctx context.Context) (int64, error)

// SequenceRepository contador atómico por clave. La primera llamada para una clave
// inicializa el contador con seed() y devuelve seed()+1.
type SequenceRepository interface {
	Next(ctx context.Context, key string, seed SeedFunc) (int64, error)
}
