package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de factura.
const (
	InvoiceStatusPending   = "pending"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// InvoiceTag etiqueta de idempotencia guardada en Notes para facturas generadas desde transacciones.
func InvoiceTag(transactionID string) string {
	return fmt.Sprintf("TRANS-%s", transactionID)
}

// Invoice representa la cabecera de una factura.
type Invoice struct {
	ID                 string
	InvoiceNumber      string // secuencial con ceros a la izquierda (6 dígitos)
	ClientID           string
	StockTransactionID string // vacío si la factura no proviene de una transacción
	IssueDate          time.Time
	DueDate            time.Time
	Status             string
	Subtotal           decimal.Decimal
	TaxRate            decimal.Decimal
	TaxAmount          decimal.Decimal
	Discount           decimal.Decimal
	Total              decimal.Decimal
	Notes              string
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Items              []*InvoiceItem
}

// InvoiceItem línea de factura.
type InvoiceItem struct {
	ID         string
	InvoiceID  string
	ProductID  string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}
