package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos (solo INSERT) sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, transaction_id, amount, payment_date, payment_method, reference, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.TransactionID, p.Amount, p.PaymentDate, p.Method, p.Reference, p.CreatedBy, p.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("transacción", p.TransactionID)
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ListByTransaction(ctx context.Context, transactionID string) ([]*entity.Payment, error) {
	list := []*entity.Payment{}
	if !isUUID(transactionID) {
		return list, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, transaction_id, amount, payment_date, payment_method, reference, created_by, created_at
		FROM payments WHERE transaction_id = $1 ORDER BY payment_date, created_at`, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.Amount, &p.PaymentDate, &p.Method, &p.Reference, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

func (r *PaymentRepo) SumByTransaction(ctx context.Context, transactionID string) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE transaction_id = $1`, transactionID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}
