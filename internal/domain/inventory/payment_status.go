package inventory

import (
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/money"
	"github.com/shopspring/decimal"
)

// PaymentFigures campos de pago derivados de un total.
type PaymentFigures struct {
	Status     entity.PaymentStatus
	AmountPaid decimal.Decimal
	AmountDue  decimal.Decimal
}

// ResolvePayment deriva pagado/adeudado desde un estado declarado por el usuario al crear la transacción.
func ResolvePayment(status entity.PaymentStatus, total, declaredPaid decimal.Decimal) (PaymentFigures, error) {
	total = money.Amount(total)
	switch status {
	case entity.PaymentPaid:
		return PaymentFigures{Status: status, AmountPaid: total, AmountDue: decimal.Zero}, nil
	case entity.PaymentDue, entity.PaymentCredit:
		return PaymentFigures{Status: status, AmountPaid: decimal.Zero, AmountDue: total}, nil
	case entity.PaymentPartial:
		paid := money.Amount(declaredPaid)
		if !paid.IsPositive() {
			return PaymentFigures{}, domain.Invalid("amount_paid", "un pago parcial requiere monto mayor a cero")
		}
		// Un parcial que cubre el total queda pagado.
		if paid.GreaterThanOrEqual(total) {
			return PaymentFigures{Status: entity.PaymentPaid, AmountPaid: total, AmountDue: decimal.Zero}, nil
		}
		return PaymentFigures{Status: status, AmountPaid: paid, AmountDue: total.Sub(paid)}, nil
	case entity.PaymentNA:
		return PaymentFigures{Status: status, AmountPaid: decimal.Zero, AmountDue: decimal.Zero}, nil
	}
	return PaymentFigures{}, domain.Invalid("payment_status", "estado de pago desconocido")
}

// ResolveFromPayments deriva el estado a partir de la suma de pagos registrados.
func ResolveFromPayments(total, sum decimal.Decimal) PaymentFigures {
	total = money.Amount(total)
	sum = money.Amount(sum)
	switch {
	case sum.GreaterThanOrEqual(total):
		return PaymentFigures{Status: entity.PaymentPaid, AmountPaid: total, AmountDue: decimal.Zero}
	case sum.IsPositive():
		return PaymentFigures{Status: entity.PaymentPartial, AmountPaid: sum, AmountDue: total.Sub(sum)}
	default:
		return PaymentFigures{Status: entity.PaymentDue, AmountPaid: decimal.Zero, AmountDue: total}
	}
}
