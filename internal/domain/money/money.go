// Package money fija la precisión de montos (2 decimales) y cantidades (3 decimales).
// Todo redondeo ocurre al momento de almacenar, nunca al mostrar.
package money

import (
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	AmountPlaces int32 = 2
	QtyPlaces    int32 = 3
)

// Límites exclusivos de las columnas NUMERIC(14,2) y NUMERIC(14,3).
var (
	MaxAmount = decimal.New(1, 12)
	MaxQty    = decimal.New(1, 11)
)

var hundred = decimal.NewFromInt(100)

// Amount redondea un monto a 2 decimales.
func Amount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// Qty redondea una cantidad de stock a 3 decimales.
func Qty(d decimal.Decimal) decimal.Decimal {
	return d.Round(QtyPlaces)
}

// Mul cantidad × precio, redondeado a monto.
func Mul(qty, price decimal.Decimal) decimal.Decimal {
	return Amount(qty.Mul(price))
}

// ApplyDeduction amount * (1 - rate/100) sin redondear.
func ApplyDeduction(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Sub(rate.Div(hundred)))
}

// Min devuelve el menor de a y b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// CheckAmount el monto redondeado cabe en NUMERIC(14,2), con signo.
func CheckAmount(field string, d decimal.Decimal) error {
	if Amount(d).Abs().GreaterThanOrEqual(MaxAmount) {
		return domain.Invalid(field, fmt.Sprintf("debe ser menor a %s", MaxAmount.String()))
	}
	return nil
}

// CheckQty la cantidad redondeada cabe en NUMERIC(14,3).
func CheckQty(field string, d decimal.Decimal) error {
	if Qty(d).Abs().GreaterThanOrEqual(MaxQty) {
		return domain.Invalid(field, fmt.Sprintf("debe ser menor a %s", MaxQty.String()))
	}
	return nil
}
