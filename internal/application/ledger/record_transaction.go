package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/validation"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/money"
	"github.com/shopspring/decimal"
)

// RecordTransactionInput solicitud de un evento de inventario. Los precios nil se toman del producto.
type RecordTransactionInput struct {
	Type                   entity.TransactionType `json:"transaction_type" validate:"required,oneof=in out wastage return transfer"`
	ProductID              string                 `json:"product_id" validate:"required"`
	Quantity               decimal.Decimal        `json:"quantity"`
	UnitPrice              *decimal.Decimal       `json:"unit_price"`
	BuyingPrice            *decimal.Decimal       `json:"buying_price"`
	SellingPrice           *decimal.Decimal       `json:"selling_price"`
	FinalPrice             *decimal.Decimal       `json:"final_price"`
	WastageAmount          decimal.Decimal        `json:"wastage_amount"`
	SupplierID             string                 `json:"supplier_id"`
	ClientID               string                 `json:"client_id"`
	SourceWarehouseID      string                 `json:"source_warehouse_id"`
	DestinationWarehouseID string                 `json:"destination_warehouse_id"`
	ApplyTaxes             bool                   `json:"apply_taxes"`
	VATRate                decimal.Decimal        `json:"vat_rate"`
	AITRate                decimal.Decimal        `json:"ait_rate"`
	PaymentStatus          entity.PaymentStatus   `json:"payment_status" validate:"omitempty,oneof=paid due partial credit na"`
	PaymentMethod          string                 `json:"payment_method" validate:"omitempty,oneof=cash bank card mobile cheque other"`
	PaymentDueDate         *time.Time             `json:"payment_due_date"`
	AmountPaid             decimal.Decimal        `json:"amount_paid"`
	ReferenceNumber        string                 `json:"reference_number" validate:"max=100"`
	Notes                  string                 `json:"notes" validate:"max=2000"`
	TransactionDate        *time.Time             `json:"transaction_date"`
	CreatedBy              string                 `json:"-"`
}

// RecordResult la transacción persistida junto con sus efectos sobre el libro.
// Invoice es nil si la transacción no genera factura.
type RecordResult struct {
	Transaction    *entity.StockTransaction
	Movement       *inventory.MovementPlan
	OpeningPayment *entity.Payment
	Invoice        *entity.Invoice
}

// UpdateTransactionInput campos editables después de creada; nunca re-aplica el movimiento.
type UpdateTransactionInput struct {
	ReferenceNumber *string    `json:"reference_number" validate:"omitempty,max=100"`
	Notes           *string    `json:"notes" validate:"omitempty,max=2000"`
	PaymentDueDate  *time.Time `json:"payment_due_date"`
}

// RecordTransactionUseCase registra movimientos de stock: valida, calcula, aplica el movimiento
// sobre los productos y persiste la transacción dentro de una sola transacción de almacenamiento.
type RecordTransactionUseCase struct {
	deps     Deps
	invoices *InvoiceGenerator
}

// NewRecordTransactionUseCase construye el caso de uso.
func NewRecordTransactionUseCase(deps Deps, invoices *InvoiceGenerator) *RecordTransactionUseCase {
	deps.normalize()
	return &RecordTransactionUseCase{deps: deps, invoices: invoices}
}

// prepared estado calculado antes de escribir.
type prepared struct {
	txn     *entity.StockTransaction
	product *entity.Product
	plan    *inventory.MovementPlan
}

// Record valida y registra la transacción. Si falla, ningún producto queda modificado.
func (uc *RecordTransactionUseCase) Record(ctx context.Context, in RecordTransactionInput) (*RecordResult, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}
	var result *RecordResult
	err := uc.deps.Tx.Run(ctx, func(repos TxRepos) error {
		p, err := uc.prepare(ctx, repos, in, true)
		if err != nil {
			return err
		}
		txn := p.txn
		code, err := uc.deps.transactionCode(ctx, repos, txn.Type, txn.TransactionDate)
		if err != nil {
			return err
		}
		txn.TransactionID = code

		if err := applyPlan(ctx, repos, p.plan); err != nil {
			return err
		}
		if err := repos.Transactions.Create(ctx, txn); err != nil {
			return err
		}
		result = &RecordResult{Transaction: txn, Movement: p.plan}

		if txn.AmountPaid.IsPositive() {
			method := in.PaymentMethod
			if method == "" {
				method = entity.PaymentMethodCash
			}
			opening := &entity.Payment{
				ID:            uc.deps.NewID(),
				TransactionID: txn.ID,
				Amount:        txn.AmountPaid,
				PaymentDate:   txn.TransactionDate,
				Method:        method,
				Reference:     txn.ReferenceNumber,
				CreatedBy:     txn.CreatedBy,
				CreatedAt:     txn.CreatedAt,
			}
			if err := repos.Payments.Create(ctx, opening); err != nil {
				return err
			}
			result.OpeningPayment = opening
		}

		if txn.IsSaleToClient() && uc.invoices != nil {
			inv, _, err := uc.invoices.generateInTx(ctx, repos, txn)
			if err != nil {
				return err
			}
			result.Invoice = inv
		}
		return nil
	})
	if err != nil {
		uc.deps.Log.Warn().Err(err).
			Str("type", string(in.Type)).
			Str("product_id", in.ProductID).
			Str("quantity", in.Quantity.String()).
			Msg("transacción rechazada")
		return nil, err
	}
	ev := uc.deps.Log.Info().
		Str("transaction_id", result.Transaction.TransactionID).
		Str("type", string(result.Transaction.Type)).
		Str("product_id", result.Transaction.ProductID).
		Str("quantity", result.Transaction.Quantity.String()).
		Str("total_price", result.Transaction.TotalPrice.StringFixed(2))
	if result.Invoice != nil {
		ev = ev.Str("invoice_number", result.Invoice.InvoiceNumber)
	}
	ev.Msg("transacción registrada")
	return result, nil
}

// Preview calcula la transacción y su movimiento sin persistir nada (no asigna transaction_id).
func (uc *RecordTransactionUseCase) Preview(ctx context.Context, in RecordTransactionInput) (*RecordResult, error) {
	if err := uc.check(in); err != nil {
		return nil, err
	}
	p, err := uc.prepare(ctx, uc.deps.Reader, in, false)
	if err != nil {
		return nil, err
	}
	return &RecordResult{Transaction: p.txn, Movement: p.plan}, nil
}

// Update edita referencia, notas y vencimiento. Cantidades y montos son inmutables.
func (uc *RecordTransactionUseCase) Update(ctx context.Context, ref string, in UpdateTransactionInput) (*entity.StockTransaction, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	var out *entity.StockTransaction
	err := uc.deps.Tx.Run(ctx, func(repos TxRepos) error {
		txn, err := findTransaction(ctx, repos.Transactions, ref, true)
		if err != nil {
			return err
		}
		if in.ReferenceNumber != nil {
			txn.ReferenceNumber = *in.ReferenceNumber
		}
		if in.Notes != nil {
			txn.Notes = *in.Notes
		}
		if in.PaymentDueDate != nil {
			due := *in.PaymentDueDate
			txn.PaymentDueDate = &due
		}
		if err := repos.Transactions.UpdateDetails(ctx, txn.ID, txn.ReferenceNumber, txn.Notes, txn.PaymentDueDate); err != nil {
			return err
		}
		if in.PaymentDueDate != nil {
			if err := moveInvoiceDueDate(ctx, repos, txn, uc.deps.Clock()); err != nil {
				return err
			}
		}
		out = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// moveInvoiceDueDate la factura pendiente sigue el vencimiento de su transacción.
func moveInvoiceDueDate(ctx context.Context, repos TxRepos, txn *entity.StockTransaction, now time.Time) error {
	inv, err := existing(ctx, repos, txn)
	if err != nil || inv == nil || inv.Status != entity.InvoiceStatusPending {
		return err
	}
	return repos.Invoices.UpdateDueDate(ctx, inv.ID, *txn.PaymentDueDate, now)
}

func (uc *RecordTransactionUseCase) check(in RecordTransactionInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if err := money.CheckQty("quantity", in.Quantity); err != nil {
		return err
	}
	amounts := []struct {
		field string
		value *decimal.Decimal
	}{
		{"unit_price", in.UnitPrice},
		{"buying_price", in.BuyingPrice},
		{"selling_price", in.SellingPrice},
		{"final_price", in.FinalPrice},
		{"wastage_amount", &in.WastageAmount},
		{"amount_paid", &in.AmountPaid},
	}
	for _, a := range amounts {
		if a.value == nil {
			continue
		}
		if a.value.IsNegative() {
			return domain.Invalid(a.field, "no puede ser negativo")
		}
		if err := money.CheckAmount(a.field, *a.value); err != nil {
			return err
		}
	}
	return nil
}

// checkFigures montos derivados y cantidades resultantes dentro de la precisión almacenable.
func checkFigures(txn *entity.StockTransaction, plan *inventory.MovementPlan) error {
	derived := []struct {
		field string
		value decimal.Decimal
	}{
		{"total_price", txn.TotalPrice},
		{"profit_loss", txn.ProfitLoss},
		{"final_price", txn.FinalPrice},
		{"unit_price", txn.UnitPrice},
	}
	for _, f := range derived {
		if err := money.CheckAmount(f.field, f.value); err != nil {
			return err
		}
	}
	for _, c := range plan.Changes {
		if err := money.CheckQty("quantity", c.After); err != nil {
			return err
		}
	}
	return nil
}

// prepare lee (y bloquea si lock) los productos involucrados, valida referencias,
// planifica el movimiento y calcula los montos. No escribe nada.
func (uc *RecordTransactionUseCase) prepare(ctx context.Context, repos TxRepos, in RecordTransactionInput, lock bool) (*prepared, error) {
	product, destination, err := loadProducts(ctx, repos, in, lock)
	if err != nil {
		return nil, err
	}
	if err := checkReferences(ctx, repos, in); err != nil {
		return nil, err
	}

	now := uc.deps.Clock()
	plan, err := inventory.PlanMovement(inventory.MovementInput{
		Type:                   in.Type,
		Product:                product,
		Destination:            destination,
		Quantity:               in.Quantity,
		SourceWarehouseID:      in.SourceWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
	}, uc.deps.NewID, now)
	if err != nil {
		return nil, err
	}

	figures, err := inventory.ComputeFigures(inventory.PricingInput{
		Type:          in.Type,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		BuyingPrice:   in.BuyingPrice,
		SellingPrice:  in.SellingPrice,
		FinalPrice:    in.FinalPrice,
		WastageAmount: in.WastageAmount,
		ApplyTaxes:    in.ApplyTaxes,
		VATRate:       in.VATRate,
		AITRate:       in.AITRate,
	}, product)
	if err != nil {
		return nil, err
	}

	status := in.PaymentStatus
	switch {
	case in.Type == entity.TransactionWastage || in.Type == entity.TransactionTransfer:
		status = entity.PaymentNA
	case status == "":
		status = entity.PaymentDue
	}
	payment, err := inventory.ResolvePayment(status, figures.TotalPrice, in.AmountPaid)
	if err != nil {
		return nil, err
	}

	date := now
	if in.TransactionDate != nil {
		date = *in.TransactionDate
	}
	var dueDate *time.Time
	if in.PaymentDueDate != nil {
		due := *in.PaymentDueDate
		dueDate = &due
	}

	txn := &entity.StockTransaction{
		ID:                     uc.deps.NewID(),
		Type:                   in.Type,
		ProductID:              product.ID,
		DestinationProductID:   plan.DestinationProductID(),
		Quantity:               money.Qty(in.Quantity),
		UnitPrice:              figures.UnitPrice,
		BuyingPrice:            figures.BuyingPrice,
		SellingPrice:           figures.SellingPrice,
		WastageAmount:          figures.WastageAmount,
		TotalPrice:             figures.TotalPrice,
		ProfitLoss:             figures.ProfitLoss,
		SupplierID:             in.SupplierID,
		ClientID:               in.ClientID,
		SourceWarehouseID:      plan.SourceWarehouseID,
		DestinationWarehouseID: plan.DestinationWarehouseID,
		ApplyTaxes:             figures.ApplyTaxes,
		VATRate:                figures.VATRate,
		AITRate:                figures.AITRate,
		FinalPrice:             figures.FinalPrice,
		PaymentStatus:          payment.Status,
		PaymentDueDate:         dueDate,
		AmountPaid:             payment.AmountPaid,
		AmountDue:              payment.AmountDue,
		ReferenceNumber:        in.ReferenceNumber,
		Notes:                  in.Notes,
		TransactionDate:        date,
		CreatedBy:              in.CreatedBy,
		CreatedAt:              now,
	}
	if err := checkFigures(txn, plan); err != nil {
		return nil, err
	}
	return &prepared{txn: txn, product: product, plan: plan}, nil
}

// loadProducts lee el producto y, si aplica, la fila del mismo SKU en la bodega destino.
// Con lock, bloquea ambas filas en orden ascendente de id para que traslados opuestos no se bloqueen mutuamente.
func loadProducts(ctx context.Context, repos TxRepos, in RecordTransactionInput, lock bool) (*entity.Product, *entity.Product, error) {
	product, err := repos.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.NotFound("producto", in.ProductID)
	}

	var destination *entity.Product
	if in.DestinationWarehouseID != "" && in.DestinationWarehouseID != product.WarehouseID &&
		(in.Type == entity.TransactionTransfer || in.Type == entity.TransactionIn || in.Type == entity.TransactionReturn) {
		destination, err = repos.Products.GetBySKUAndWarehouse(ctx, product.SKU, in.DestinationWarehouseID)
		if err != nil {
			return nil, nil, err
		}
	}
	if !lock {
		return product, destination, nil
	}

	ids := []string{product.ID}
	if destination != nil {
		ids = append(ids, destination.ID)
	}
	sort.Strings(ids)
	locked := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		p, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			return nil, nil, domain.NotFound("producto", id)
		}
		locked[id] = p
	}
	product = locked[product.ID]
	if destination != nil {
		destination = locked[destination.ID]
	}
	return product, destination, nil
}

// checkReferences verifica que bodegas, cliente y proveedor referenciados existan.
func checkReferences(ctx context.Context, repos TxRepos, in RecordTransactionInput) error {
	for _, id := range []string{in.SourceWarehouseID, in.DestinationWarehouseID} {
		if id == "" {
			continue
		}
		wh, err := repos.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.NotFound("bodega", id)
		}
		if id == in.DestinationWarehouseID && !wh.Active {
			return domain.Invalid("destination_warehouse_id", "la bodega destino está inactiva")
		}
	}
	if in.ClientID != "" {
		c, err := repos.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("cliente", in.ClientID)
		}
	}
	if in.SupplierID != "" {
		s, err := repos.Suppliers.GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NotFound("proveedor", in.SupplierID)
		}
	}
	return nil
}

// applyPlan escribe el plan: crea la fila destino si hace falta y actualiza cantidades con CAS.
func applyPlan(ctx context.Context, repos TxRepos, plan *inventory.MovementPlan) error {
	if plan.NewProduct != nil {
		if err := repos.Products.Create(ctx, plan.NewProduct); err != nil {
			return err
		}
	}
	for _, ch := range plan.Changes {
		if err := repos.Products.UpdateStock(ctx, ch.ProductID, ch.Before, ch.After, ch.WarehouseAfter); err != nil {
			return err
		}
	}
	return nil
}
