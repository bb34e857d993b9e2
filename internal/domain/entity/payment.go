package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodBank   = "bank"
	PaymentMethodCard   = "card"
	PaymentMethodMobile = "mobile"
	PaymentMethodCheque = "cheque"
	PaymentMethodOther  = "other"
)

// Payment abono contra una transacción. Solo se agregan, nunca se modifican.
type Payment struct {
	ID            string
	TransactionID string // ID (uuid) de la StockTransaction
	Amount        decimal.Decimal
	PaymentDate   time.Time
	Method        string
	Reference     string
	CreatedBy     string
	CreatedAt     time.Time
}
