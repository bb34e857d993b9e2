package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/money"
	"github.com/shopspring/decimal"
)

// GenerateInvoiceResult factura de la transacción. Created=false indica que ya existía
// y se devolvió sin cambios.
type GenerateInvoiceResult struct {
	Invoice *entity.Invoice
	Created bool
}

// InvoiceGenerator deriva una factura con una línea desde una salida a cliente, de forma idempotente.
type InvoiceGenerator struct {
	deps Deps
}

// NewInvoiceGenerator construye el generador.
func NewInvoiceGenerator(deps Deps) *InvoiceGenerator {
	deps.normalize()
	return &InvoiceGenerator{deps: deps}
}

// GenerateFor genera (o devuelve la existente) la factura de la transacción ref (UUID o código).
// Con Locker configurado, dos procesos no generan a la vez para la misma transacción.
func (g *InvoiceGenerator) GenerateFor(ctx context.Context, ref string) (*GenerateInvoiceResult, error) {
	if ref == "" {
		return nil, domain.Invalid("transaction_id", "requerido")
	}
	if g.deps.Locker != nil {
		// UUID y código de la misma transacción comparten lock.
		target, err := findTransaction(ctx, g.deps.Reader.Transactions, ref, false)
		if err != nil {
			return nil, err
		}
		lock, err := g.deps.Locker.Obtain(ctx, invoiceLockKey(target.ID), g.deps.Config.LockTTL)
		if errors.Is(err, ErrLockNotObtained) {
			return nil, fmt.Errorf("%w: factura de %s en generación", domain.ErrConflict, target.TransactionID)
		}
		if err != nil {
			return nil, fmt.Errorf("obtener lock de factura: %w", err)
		}
		defer func() { _ = lock.Release(ctx) }()
	}

	var result *GenerateInvoiceResult
	err := g.deps.Tx.Run(ctx, func(repos TxRepos) error {
		txn, err := findTransaction(ctx, repos.Transactions, ref, true)
		if err != nil {
			return err
		}
		inv, created, err := g.generateInTx(ctx, repos, txn)
		if err != nil {
			return err
		}
		result = &GenerateInvoiceResult{Invoice: inv, Created: created}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.Created {
		g.deps.Log.Info().
			Str("invoice_number", result.Invoice.InvoiceNumber).
			Str("stock_transaction_id", result.Invoice.StockTransactionID).
			Msg("factura generada")
	} else {
		g.deps.Log.Info().
			Str("invoice_number", result.Invoice.InvoiceNumber).
			Msg("factura existente, no se duplica")
	}
	return result, nil
}

func invoiceLockKey(transactionID string) string {
	return "invoice:" + transactionID
}

// existing busca por stock_transaction_id y, para facturas antiguas, por la etiqueta en notes.
func existing(ctx context.Context, repos TxRepos, txn *entity.StockTransaction) (*entity.Invoice, error) {
	inv, err := repos.Invoices.GetByStockTransactionID(ctx, txn.ID)
	if err != nil || inv != nil {
		return inv, err
	}
	return repos.Invoices.FindByNotesTag(ctx, entity.InvoiceTag(txn.ID))
}

// generateInTx usa los repos de la transacción en curso. La fila de txn debe estar bloqueada
// o recién creada en esta misma transacción.
func (g *InvoiceGenerator) generateInTx(ctx context.Context, repos TxRepos, txn *entity.StockTransaction) (*entity.Invoice, bool, error) {
	found, err := existing(ctx, repos, txn)
	if err != nil {
		return nil, false, err
	}
	if found != nil {
		return found, false, nil
	}
	if !txn.IsSaleToClient() {
		return nil, false, domain.Invalid("transaction_type", "solo las salidas con cliente generan factura")
	}

	number, err := g.deps.invoiceNumber(ctx, repos)
	if err != nil {
		return nil, false, err
	}
	inv := buildInvoice(txn, g.deps.Config.InvoiceDueDays)
	inv.ID = g.deps.NewID()
	inv.InvoiceNumber = number
	now := g.deps.Clock()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	item := inv.Items[0]
	item.ID = g.deps.NewID()
	item.InvoiceID = inv.ID

	if err := repos.Invoices.Create(ctx, inv); err != nil {
		return nil, false, err
	}
	if err := repos.Invoices.CreateItem(ctx, item); err != nil {
		return nil, false, err
	}
	return inv, true, nil
}

// buildInvoice calcula cabecera y línea a partir de la transacción (sin ids ni número).
func buildInvoice(txn *entity.StockTransaction, dueDays int) *entity.Invoice {
	status := entity.InvoiceStatusPending
	if txn.PaymentStatus == entity.PaymentPaid || txn.PaymentStatus == entity.PaymentNA {
		status = entity.InvoiceStatusPaid
	}

	taxRate := decimal.Zero
	taxAmount := decimal.Zero
	if txn.ApplyTaxes {
		taxRate = txn.VATRate.Add(txn.AITRate)
		if txn.FinalPrice.IsPositive() {
			taxAmount = txn.TotalPrice.Sub(money.Mul(txn.Quantity, txn.FinalPrice))
		}
	}
	subtotal := money.Amount(txn.TotalPrice)
	discount := decimal.Zero

	issue := txn.TransactionDate
	due := issue.AddDate(0, 0, dueDays)
	if txn.PaymentDueDate != nil {
		due = *txn.PaymentDueDate
	}

	return &entity.Invoice{
		ClientID:           txn.ClientID,
		StockTransactionID: txn.ID,
		IssueDate:          issue,
		DueDate:            due,
		Status:             status,
		Subtotal:           subtotal,
		TaxRate:            taxRate,
		TaxAmount:          money.Amount(taxAmount),
		Discount:           discount,
		Total:              money.Amount(subtotal.Add(taxAmount).Sub(discount)),
		Notes:              fmt.Sprintf("%s %s", entity.InvoiceTag(txn.ID), txn.TransactionID),
		CreatedBy:          txn.CreatedBy,
		Items: []*entity.InvoiceItem{{
			ProductID:  txn.ProductID,
			Quantity:   txn.Quantity,
			UnitPrice:  txn.UnitPrice,
			TotalPrice: txn.TotalPrice,
		}},
	}
}
