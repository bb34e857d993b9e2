package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/validation"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/money"
	"github.com/shopspring/decimal"
)

// RecordPaymentInput abono contra una transacción (UUID o código legible).
type RecordPaymentInput struct {
	TransactionID string          `json:"transaction_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   *time.Time      `json:"payment_date"`
	Method        string          `json:"payment_method" validate:"required,oneof=cash bank card mobile cheque other"`
	Reference     string          `json:"reference" validate:"max=100"`
	CreatedBy     string          `json:"-"`
}

// RecordPaymentResult el pago creado y el estado resultante de la transacción.
type RecordPaymentResult struct {
	Payment     *entity.Payment
	Transaction *entity.StockTransaction
}

// RecordPaymentUseCase único escritor de los campos de pago después de creada la transacción.
type RecordPaymentUseCase struct {
	deps Deps
}

// NewRecordPaymentUseCase construye el caso de uso.
func NewRecordPaymentUseCase(deps Deps) *RecordPaymentUseCase {
	deps.normalize()
	return &RecordPaymentUseCase{deps: deps}
}

// Record agrega el pago y recalcula estado/pagado/adeudado desde la suma de todos los pagos.
// Solo escribe esos tres campos; no vuelve a aplicar el movimiento ni genera facturas.
func (uc *RecordPaymentUseCase) Record(ctx context.Context, in RecordPaymentInput) (*RecordPaymentResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	amount := money.Amount(in.Amount)
	if !amount.IsPositive() {
		return nil, domain.Invalid("amount", "debe ser mayor a cero")
	}

	var result *RecordPaymentResult
	err := uc.deps.Tx.Run(ctx, func(repos TxRepos) error {
		txn, err := findTransaction(ctx, repos.Transactions, in.TransactionID, true)
		if err != nil {
			return err
		}
		if amount.GreaterThan(txn.AmountDue) {
			return &domain.OverpaymentError{Amount: amount, Due: txn.AmountDue}
		}

		now := uc.deps.Clock()
		date := now
		if in.PaymentDate != nil {
			date = *in.PaymentDate
		}
		payment := &entity.Payment{
			ID:            uc.deps.NewID(),
			TransactionID: txn.ID,
			Amount:        amount,
			PaymentDate:   date,
			Method:        in.Method,
			Reference:     in.Reference,
			CreatedBy:     in.CreatedBy,
			CreatedAt:     now,
		}
		if err := repos.Payments.Create(ctx, payment); err != nil {
			return err
		}

		sum, err := repos.Payments.SumByTransaction(ctx, txn.ID)
		if err != nil {
			return err
		}
		figures := inventory.ResolveFromPayments(txn.TotalPrice, sum)
		if err := repos.Transactions.UpdatePaymentFields(ctx, txn.ID, figures.Status, figures.AmountPaid, figures.AmountDue); err != nil {
			return err
		}
		txn.PaymentStatus = figures.Status
		txn.AmountPaid = figures.AmountPaid
		txn.AmountDue = figures.AmountDue

		if figures.Status == entity.PaymentPaid {
			if err := markInvoicePaid(ctx, repos, txn, now); err != nil {
				return err
			}
		}
		result = &RecordPaymentResult{Payment: payment, Transaction: txn}
		return nil
	})
	if err != nil {
		uc.deps.Log.Warn().Err(err).
			Str("transaction", in.TransactionID).
			Str("amount", amount.StringFixed(2)).
			Msg("pago rechazado")
		return nil, err
	}
	uc.deps.Log.Info().
		Str("transaction_id", result.Transaction.TransactionID).
		Str("amount", amount.StringFixed(2)).
		Str("payment_status", string(result.Transaction.PaymentStatus)).
		Str("amount_due", result.Transaction.AmountDue.StringFixed(2)).
		Msg("pago registrado")
	return result, nil
}

// markInvoicePaid incluye facturas antiguas enlazadas solo por la etiqueta en notes.
func markInvoicePaid(ctx context.Context, repos TxRepos, txn *entity.StockTransaction, now time.Time) error {
	inv, err := existing(ctx, repos, txn)
	if err != nil || inv == nil {
		return err
	}
	if inv.Status != entity.InvoiceStatusPending {
		return nil
	}
	return repos.Invoices.UpdateStatus(ctx, inv.ID, entity.InvoiceStatusPaid, now)
}
