package inventory

import (
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/money"
	"github.com/shopspring/decimal"
)

var maxRate = decimal.NewFromInt(100)

// ValidateRate exige 0 <= rate < 100.
func ValidateRate(field string, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return domain.Invalid(field, "la tasa no puede ser negativa")
	}
	if rate.GreaterThanOrEqual(maxRate) {
		return domain.Invalid(field, "la tasa debe ser menor a 100")
	}
	return nil
}

// CalculateFinalPrice aplica VAT y luego AIT sobre el monto ya descontado de VAT (deducción secuencial).
// final = selling * (1 - vat/100) * (1 - ait/100), redondeado a 2 decimales.
func CalculateFinalPrice(sellingPrice, vatRate, aitRate decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateRate("vat_rate", vatRate); err != nil {
		return decimal.Zero, err
	}
	if err := ValidateRate("ait_rate", aitRate); err != nil {
		return decimal.Zero, err
	}
	afterVAT := money.ApplyDeduction(sellingPrice, vatRate)
	return money.Amount(money.ApplyDeduction(afterVAT, aitRate)), nil
}

// FinalPriceFor devuelve el precio de venta sin cambios cuando no se aplican impuestos.
func FinalPriceFor(applyTaxes bool, sellingPrice, vatRate, aitRate decimal.Decimal) (decimal.Decimal, error) {
	if !applyTaxes {
		return money.Amount(sellingPrice), nil
	}
	return CalculateFinalPrice(sellingPrice, vatRate, aitRate)
}
