package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tipo cerrado de movimiento de stock.
type TransactionType string

const (
	TransactionIn       TransactionType = "in"       // entrada
	TransactionOut      TransactionType = "out"      // salida / venta
	TransactionWastage  TransactionType = "wastage"  // merma
	TransactionReturn   TransactionType = "return"   // devolución
	TransactionTransfer TransactionType = "transfer" // traslado entre bodegas
)

// TransactionTypes todos los tipos válidos, en orden estable.
var TransactionTypes = []TransactionType{
	TransactionIn, TransactionOut, TransactionWastage, TransactionReturn, TransactionTransfer,
}

// Valid indica si t es uno de los tipos conocidos.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionIn, TransactionOut, TransactionWastage, TransactionReturn, TransactionTransfer:
		return true
	}
	return false
}

// Prefix devuelve el prefijo del código legible (PREFIX-YYMMDD-NNNN).
func (t TransactionType) Prefix() string {
	switch t {
	case TransactionIn:
		return "IN"
	case TransactionOut:
		return "OUT"
	case TransactionWastage:
		return "WST"
	case TransactionReturn:
		return "RET"
	case TransactionTransfer:
		return "TRF"
	}
	return "TXN"
}

// PaymentStatus estado de cobro de una transacción.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentDue     PaymentStatus = "due"
	PaymentPartial PaymentStatus = "partial"
	PaymentCredit  PaymentStatus = "credit"
	PaymentNA      PaymentStatus = "na" // no aplica (mermas, traslados)
)

// Valid indica si s es un estado conocido.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentDue, PaymentPartial, PaymentCredit, PaymentNA:
		return true
	}
	return false
}

// StockTransaction registro inmutable de un evento de inventario.
// Solo los campos de pago cambian después de creado (vía registro de pagos).
type StockTransaction struct {
	ID                     string
	TransactionID          string // código legible PREFIX-YYMMDD-NNNN
	Type                   TransactionType
	ProductID              string
	DestinationProductID   string // fila destino en traslados
	Quantity               decimal.Decimal
	UnitPrice              decimal.Decimal
	BuyingPrice            decimal.Decimal
	SellingPrice           decimal.Decimal
	WastageAmount          decimal.Decimal
	TotalPrice             decimal.Decimal
	ProfitLoss             decimal.Decimal
	SupplierID             string
	ClientID               string
	SourceWarehouseID      string
	DestinationWarehouseID string
	ApplyTaxes             bool
	VATRate                decimal.Decimal
	AITRate                decimal.Decimal
	FinalPrice             decimal.Decimal
	PaymentStatus          PaymentStatus
	PaymentDueDate         *time.Time
	AmountPaid             decimal.Decimal
	AmountDue              decimal.Decimal
	ReferenceNumber        string
	Notes                  string
	TransactionDate        time.Time
	CreatedBy              string
	CreatedAt              time.Time
}

// IsSaleToClient indica si la transacción debe generar factura.
func (t *StockTransaction) IsSaleToClient() bool {
	return t.Type == TransactionOut && t.ClientID != ""
}
