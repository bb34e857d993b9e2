package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo libro de transacciones sobre PostgreSQL (usable con pool o tx).
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

const transactionColumns = `id, transaction_id, transaction_type, product_id, destination_product_id, quantity,
	unit_price, buying_price, selling_price, wastage_amount, total_price, profit_loss,
	supplier_id, client_id, source_warehouse_id, destination_warehouse_id,
	apply_taxes, vat_rate, ait_rate, final_price,
	payment_status, payment_due_date, amount_paid, amount_due,
	reference_number, notes, transaction_date, created_by, created_at`

func scanTransaction(row pgxScanner) (*entity.StockTransaction, error) {
	var (
		t                            entity.StockTransaction
		dstProduct, supplier, client *string
		srcWarehouse, dstWarehouse   *string
	)
	err := row.Scan(
		&t.ID, &t.TransactionID, &t.Type, &t.ProductID, &dstProduct, &t.Quantity,
		&t.UnitPrice, &t.BuyingPrice, &t.SellingPrice, &t.WastageAmount, &t.TotalPrice, &t.ProfitLoss,
		&supplier, &client, &srcWarehouse, &dstWarehouse,
		&t.ApplyTaxes, &t.VATRate, &t.AITRate, &t.FinalPrice,
		&t.PaymentStatus, &t.PaymentDueDate, &t.AmountPaid, &t.AmountDue,
		&t.ReferenceNumber, &t.Notes, &t.TransactionDate, &t.CreatedBy, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.DestinationProductID = deref(dstProduct)
	t.SupplierID = deref(supplier)
	t.ClientID = deref(client)
	t.SourceWarehouseID = deref(srcWarehouse)
	t.DestinationWarehouseID = deref(dstWarehouse)
	return &t, nil
}

// Create inserta la transacción; transaction_id duplicado devuelve ErrDuplicate.
func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.TransactionID, string(t.Type), t.ProductID, nullIfEmpty(t.DestinationProductID), t.Quantity,
		t.UnitPrice, t.BuyingPrice, t.SellingPrice, t.WastageAmount, t.TotalPrice, t.ProfitLoss,
		nullIfEmpty(t.SupplierID), nullIfEmpty(t.ClientID), nullIfEmpty(t.SourceWarehouseID), nullIfEmpty(t.DestinationWarehouseID),
		t.ApplyTaxes, t.VATRate, t.AITRate, t.FinalPrice,
		string(t.PaymentStatus), t.PaymentDueDate, t.AmountPaid, t.AmountDue,
		t.ReferenceNumber, t.Notes, t.TransactionDate, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

func (r *StockTransactionRepo) one(ctx context.Context, query string, args ...any) (*entity.StockTransaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	return t, nil
}

func (r *StockTransactionRepo) GetByID(ctx context.Context, id string) (*entity.StockTransaction, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.one(ctx, `SELECT `+transactionColumns+` FROM stock_transactions WHERE id = $1`, id)
}

func (r *StockTransactionRepo) GetByCode(ctx context.Context, code string) (*entity.StockTransaction, error) {
	return r.one(ctx, `SELECT `+transactionColumns+` FROM stock_transactions WHERE transaction_id = $1`, code)
}

// GetForUpdate bloquea la fila; serializa pagos y generación de factura sobre la misma transacción.
func (r *StockTransactionRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockTransaction, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.one(ctx, `SELECT `+transactionColumns+` FROM stock_transactions WHERE id = $1 FOR UPDATE`, id)
}

// CountByTypeBetween cuenta transacciones del tipo con transaction_date en [start, end].
func (r *StockTransactionRepo) CountByTypeBetween(ctx context.Context, txType entity.TransactionType, start, end time.Time) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM stock_transactions WHERE transaction_type = $1 AND transaction_date BETWEEN $2 AND $3`,
		string(txType), start, end,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count stock transactions: %w", err)
	}
	return n, nil
}

// List historial más reciente primero.
func (r *StockTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	if f.ProductID != "" && !isUUID(f.ProductID) {
		return []*entity.StockTransaction{}, nil
	}
	w := newWhere()
	if f.Type != "" {
		w.add("transaction_type = ?", string(f.Type))
	}
	if f.ProductID != "" {
		w.add("(product_id = ? OR destination_product_id = ?)", f.ProductID, f.ProductID)
	}
	if f.From != nil {
		w.add("transaction_date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("transaction_date <= ?", *f.To)
	}
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions` + w.sql() +
		` ORDER BY transaction_date DESC, transaction_id DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	list := []*entity.StockTransaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// UpdatePaymentFields único UPDATE de montos permitido después de creada la transacción.
func (r *StockTransactionRepo) UpdatePaymentFields(ctx context.Context, id string, status entity.PaymentStatus, paid, due decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_transactions SET payment_status = $2, amount_paid = $3, amount_due = $4 WHERE id = $1`,
		id, string(status), paid, due,
	)
	if err != nil {
		return fmt.Errorf("update payment fields: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("transacción", id)
	}
	return nil
}

func (r *StockTransactionRepo) UpdateDetails(ctx context.Context, id, reference, notes string, dueDate *time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE stock_transactions SET reference_number = $2, notes = $3, payment_due_date = $4 WHERE id = $1`,
		id, reference, notes, dueDate,
	)
	if err != nil {
		return fmt.Errorf("update transaction details: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("transacción", id)
	}
	return nil
}
