package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TransactionFilter filtros del historial de transacciones. From/To acotan transaction_date (inclusive).
type TransactionFilter struct {
	Type      entity.TransactionType
	ProductID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// StockTransactionRepository puerto de persistencia del libro de transacciones.
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	GetByID(ctx context.Context, id string) (*entity.StockTransaction, error)
	// GetByCode busca por el código legible (transaction_id).
	GetByCode(ctx context.Context, code string) (*entity.StockTransaction, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockTransaction, error)
	// CountByTypeBetween cuenta transacciones del tipo con transaction_date en [start, end].
	CountByTypeBetween(ctx context.Context, txType entity.TransactionType, start, end time.Time) (int64, error)
	List(ctx context.Context, filter TransactionFilter) ([]*entity.StockTransaction, error)
	// UpdatePaymentFields actualización directa de los tres campos de pago.
	UpdatePaymentFields(ctx context.Context, id string, status entity.PaymentStatus, paid, due decimal.Decimal) error
	// UpdateDetails edita campos informativos; no toca montos ni cantidades.
	UpdateDetails(ctx context.Context, id, reference, notes string, dueDate *time.Time) error
}
