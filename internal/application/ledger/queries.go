package ledger

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// SKUStock filas de un SKU en todas las bodegas y la cantidad total.
type SKUStock struct {
	SKU   string
	Rows  []*entity.Product
	Total decimal.Decimal
}

// QueryUseCase lecturas del libro para la capa de presentación.
type QueryUseCase struct {
	r TxRepos
}

// NewQueryUseCase construye las consultas sobre los repositorios de lectura.
func NewQueryUseCase(deps Deps) *QueryUseCase {
	return &QueryUseCase{r: deps.Reader}
}

// ProductStock cantidad y bodega actuales de un producto.
func (q *QueryUseCase) ProductStock(ctx context.Context, productID string) (*entity.Product, error) {
	p, err := q.r.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", productID)
	}
	return p, nil
}

// SKUStock agrega un SKU en todas sus bodegas.
func (q *QueryUseCase) SKUStock(ctx context.Context, sku string) (*SKUStock, error) {
	rows, err := q.r.Products.ListBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.NotFound("sku", sku)
	}
	total := decimal.Zero
	for _, p := range rows {
		total = total.Add(p.Quantity)
	}
	return &SKUStock{SKU: sku, Rows: rows, Total: total}, nil
}

// LowStock productos con cantidad en o por debajo del punto de reorden.
func (q *QueryUseCase) LowStock(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Product, error) {
	return q.r.Products.List(ctx, repository.ProductFilter{
		WarehouseID: warehouseID,
		LowStock:    true,
		Limit:       limit,
		Offset:      offset,
	})
}

// Transaction detalle por UUID o código.
func (q *QueryUseCase) Transaction(ctx context.Context, ref string) (*entity.StockTransaction, error) {
	return findTransaction(ctx, q.r.Transactions, ref, false)
}

// Transactions historial filtrado por tipo, producto y rango de fechas.
func (q *QueryUseCase) Transactions(ctx context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.Invalid("transaction_type", "tipo de transacción desconocido")
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, domain.Invalid("to", "debe ser posterior a from")
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return q.r.Transactions.List(ctx, filter)
}

// Payments historial de pagos de una transacción.
func (q *QueryUseCase) Payments(ctx context.Context, ref string) ([]*entity.Payment, error) {
	txn, err := findTransaction(ctx, q.r.Transactions, ref, false)
	if err != nil {
		return nil, err
	}
	return q.r.Payments.ListByTransaction(ctx, txn.ID)
}

// Invoice factura por id.
func (q *QueryUseCase) Invoice(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := q.r.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("factura", id)
	}
	return inv, nil
}

// InvoiceByNumber factura por número.
func (q *QueryUseCase) InvoiceByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	inv, err := q.r.Invoices.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("factura", number)
	}
	return inv, nil
}
