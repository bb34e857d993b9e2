package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de almacenamiento.
type TxRepos struct {
	Products     repository.ProductRepository
	Warehouses   repository.WarehouseRepository
	Clients      repository.ClientRepository
	Suppliers    repository.SupplierRepository
	Transactions repository.StockTransactionRepository
	Payments     repository.PaymentRepository
	Invoices     repository.InvoiceRepository
	Sequences    repository.SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción; Commit si fn retorna nil, Rollback en otro caso.
// Garantiza que un movimiento del libro se aplica completo o no se aplica.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// SequenceAllocator contador atómico externo al almacenamiento (Redis).
// Si no se configura, los números salen de TxRepos.Sequences dentro de la misma transacción.
type SequenceAllocator interface {
	Next(ctx context.Context, key string, seed repository.SeedFunc) (int64, error)
}

// ErrLockNotObtained otro proceso tiene el lock.
var ErrLockNotObtained = errors.New("lock no obtenido")

// Locker exclusión mutua entre procesos.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

// Lock lock obtenido por Locker.
type Lock interface {
	Release(ctx context.Context) error
}
