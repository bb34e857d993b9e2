package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice e InvoiceItem.
// Los Get* devuelven la factura con sus líneas, o (nil, nil) si no existe.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	GetByStockTransactionID(ctx context.Context, transactionID string) (*entity.Invoice, error)
	// FindByNotesTag búsqueda por subcadena en notes (facturas sin stock_transaction_id).
	FindByNotesTag(ctx context.Context, tag string) (*entity.Invoice, error)
	// MaxNumericNumber mayor invoice_number numérico; 0 si no hay ninguno.
	MaxNumericNumber(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id, status string, updatedAt time.Time) error
	UpdateDueDate(ctx context.Context, id string, dueDate, updatedAt time.Time) error
}
