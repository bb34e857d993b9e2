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
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, client_id, stock_transaction_id, issue_date, due_date, status,
	subtotal, tax_rate, tax_amount, discount, total, notes, created_by, created_at, updated_at`

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, nullIfEmpty(inv.ClientID), nullIfEmpty(inv.StockTransactionID),
		inv.IssueDate, inv.DueDate, inv.Status,
		inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.Discount, inv.Total,
		inv.Notes, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la factura.
func (r *InvoiceRepo) CreateItem(ctx context.Context, item *entity.InvoiceItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoice_items (id, invoice_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		item.ID, item.InvoiceID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) one(ctx context.Context, query string, args ...any) (*entity.Invoice, error) {
	var (
		inv           entity.Invoice
		client, txnID *string
	)
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&inv.ID, &inv.InvoiceNumber, &client, &txnID, &inv.IssueDate, &inv.DueDate, &inv.Status,
		&inv.Subtotal, &inv.TaxRate, &inv.TaxAmount, &inv.Discount, &inv.Total,
		&inv.Notes, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	inv.ClientID = deref(client)
	inv.StockTransactionID = deref(txnID)
	items, err := r.items(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

func (r *InvoiceRepo) items(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, product_id, quantity, unit_price, total_price
		FROM invoice_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	list := []*entity.InvoiceItem{}
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.one(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	return r.one(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE invoice_number = $1`, number)
}

func (r *InvoiceRepo) GetByStockTransactionID(ctx context.Context, transactionID string) (*entity.Invoice, error) {
	if !isUUID(transactionID) {
		return nil, nil
	}
	return r.one(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE stock_transaction_id = $1`, transactionID)
}

// FindByNotesTag facturas anteriores a stock_transaction_id guardan la etiqueta en notes.
func (r *InvoiceRepo) FindByNotesTag(ctx context.Context, tag string) (*entity.Invoice, error) {
	return r.one(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE position($1 in notes) > 0 ORDER BY created_at LIMIT 1`, tag)
}

// MaxNumericNumber mayor invoice_number compuesto solo por dígitos (0 si no hay).
func (r *InvoiceRepo) MaxNumericNumber(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(MAX(invoice_number::bigint), 0) FROM invoices WHERE invoice_number ~ '^[0-9]{1,18}$'`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("max invoice number: %w", err)
	}
	return n, nil
}

func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("factura", id)
	}
	return nil
}

func (r *InvoiceRepo) UpdateDueDate(ctx context.Context, id string, dueDate, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE invoices SET due_date = $2, updated_at = $3 WHERE id = $1`, id, dueDate, updatedAt)
	if err != nil {
		return fmt.Errorf("update invoice due date: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("factura", id)
	}
	return nil
}
