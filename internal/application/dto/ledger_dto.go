package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionResponse salida de una transacción de stock.
type TransactionResponse struct {
	ID                     string          `json:"id"`
	TransactionID          string          `json:"transaction_id"`
	Type                   string          `json:"transaction_type"`
	ProductID              string          `json:"product_id"`
	DestinationProductID   string          `json:"destination_product_id,omitempty"`
	Quantity               decimal.Decimal `json:"quantity"`
	UnitPrice              decimal.Decimal `json:"unit_price"`
	BuyingPrice            decimal.Decimal `json:"buying_price"`
	SellingPrice           decimal.Decimal `json:"selling_price"`
	WastageAmount          decimal.Decimal `json:"wastage_amount"`
	TotalPrice             decimal.Decimal `json:"total_price"`
	ProfitLoss             decimal.Decimal `json:"profit_loss"`
	SupplierID             string          `json:"supplier_id,omitempty"`
	ClientID               string          `json:"client_id,omitempty"`
	SourceWarehouseID      string          `json:"source_warehouse_id,omitempty"`
	DestinationWarehouseID string          `json:"destination_warehouse_id,omitempty"`
	ApplyTaxes             bool            `json:"apply_taxes"`
	VATRate                decimal.Decimal `json:"vat_rate"`
	AITRate                decimal.Decimal `json:"ait_rate"`
	FinalPrice             decimal.Decimal `json:"final_price"`
	PaymentStatus          string          `json:"payment_status"`
	PaymentDueDate         *time.Time      `json:"payment_due_date,omitempty"`
	AmountPaid             decimal.Decimal `json:"amount_paid"`
	AmountDue              decimal.Decimal `json:"amount_due"`
	ReferenceNumber        string          `json:"reference_number,omitempty"`
	Notes                  string          `json:"notes,omitempty"`
	TransactionDate        time.Time       `json:"transaction_date"`
	CreatedBy              string          `json:"created_by,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}

// TransactionListResponse historial paginado.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// ProductChangeResponse efecto del movimiento sobre una fila de producto.
type ProductChangeResponse struct {
	ProductID       string          `json:"product_id"`
	Before          decimal.Decimal `json:"before"`
	After           decimal.Decimal `json:"after"`
	WarehouseBefore string          `json:"warehouse_before,omitempty"`
	WarehouseAfter  string          `json:"warehouse_after,omitempty"`
}

// MovementResponse efectos de una transacción sobre el libro.
type MovementResponse struct {
	Changes              []ProductChangeResponse `json:"changes"`
	DestinationProductID string                  `json:"destination_product_id,omitempty"`
	CreatedDestination   bool                    `json:"created_destination,omitempty"`
}

// RecordTransactionResponse resultado de registrar (o previsualizar) una transacción.
type RecordTransactionResponse struct {
	Transaction    TransactionResponse `json:"transaction"`
	Movement       MovementResponse    `json:"movement"`
	OpeningPayment *PaymentResponse    `json:"opening_payment,omitempty"`
	Invoice        *InvoiceResponse    `json:"invoice,omitempty"`
}

// PaymentResponse salida de un pago.
type PaymentResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	Method        string          `json:"payment_method"`
	Reference     string          `json:"reference,omitempty"`
	CreatedBy     string          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentListResponse pagos de una transacción y su total.
type PaymentListResponse struct {
	Items []PaymentResponse `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

// RecordPaymentResponse pago registrado y estado resultante de la transacción.
type RecordPaymentResponse struct {
	Payment     PaymentResponse     `json:"payment"`
	Transaction TransactionResponse `json:"transaction"`
}

// InvoiceItemResponse línea de factura.
type InvoiceItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// InvoiceResponse salida de una factura con sus líneas.
type InvoiceResponse struct {
	ID                 string                `json:"id"`
	InvoiceNumber      string                `json:"invoice_number"`
	ClientID           string                `json:"client_id"`
	StockTransactionID string                `json:"stock_transaction_id,omitempty"`
	IssueDate          time.Time             `json:"issue_date"`
	DueDate            time.Time             `json:"due_date"`
	Status             string                `json:"status"`
	Subtotal           decimal.Decimal       `json:"subtotal"`
	TaxRate            decimal.Decimal       `json:"tax_rate"`
	TaxAmount          decimal.Decimal       `json:"tax_amount"`
	Discount           decimal.Decimal       `json:"discount"`
	Total              decimal.Decimal       `json:"total"`
	Notes              string                `json:"notes,omitempty"`
	Items              []InvoiceItemResponse `json:"items"`
	CreatedAt          time.Time             `json:"created_at"`
}

// GenerateInvoiceResponse factura y si se creó en esta llamada.
type GenerateInvoiceResponse struct {
	Invoice InvoiceResponse `json:"invoice"`
	Created bool            `json:"created"`
}
