package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PaymentRepository puerto append-only de pagos.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByTransaction(ctx context.Context, transactionID string) ([]*entity.Payment, error)
	SumByTransaction(ctx context.Context, transactionID string) (decimal.Decimal, error)
}
