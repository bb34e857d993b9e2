package inventory

import (
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/money"
	"github.com/shopspring/decimal"
)

// PricingInput precios declarados por el usuario; nil (o cero) = tomar del producto.
type PricingInput struct {
	Type          entity.TransactionType
	Quantity      decimal.Decimal
	UnitPrice     *decimal.Decimal
	BuyingPrice   *decimal.Decimal
	SellingPrice  *decimal.Decimal
	FinalPrice    *decimal.Decimal
	WastageAmount decimal.Decimal
	ApplyTaxes    bool
	VATRate       decimal.Decimal
	AITRate       decimal.Decimal
}

// Figures campos financieros derivados de una transacción.
type Figures struct {
	UnitPrice     decimal.Decimal
	BuyingPrice   decimal.Decimal
	SellingPrice  decimal.Decimal
	WastageAmount decimal.Decimal
	ApplyTaxes    bool
	VATRate       decimal.Decimal
	AITRate       decimal.Decimal
	FinalPrice    decimal.Decimal
	TotalPrice    decimal.Decimal
	ProfitLoss    decimal.Decimal
}

// ComputeFigures calcula precios, total y ganancia/pérdida según el tipo de transacción.
func ComputeFigures(in PricingInput, product *entity.Product) (Figures, error) {
	if in.WastageAmount.IsNegative() {
		return Figures{}, domain.Invalid("wastage_amount", "no puede ser negativo")
	}
	qty := money.Qty(in.Quantity)
	f := Figures{
		BuyingPrice:   snapshot(in.BuyingPrice, product.BuyingPrice),
		SellingPrice:  snapshot(in.SellingPrice, product.SellingPrice),
		WastageAmount: money.Amount(in.WastageAmount),
		ApplyTaxes:    in.ApplyTaxes,
		VATRate:       in.VATRate,
		AITRate:       in.AITRate,
	}

	switch in.Type {
	case entity.TransactionWastage:
		f.ApplyTaxes = false
		f.VATRate = decimal.Zero
		f.AITRate = decimal.Zero
		f.FinalPrice = decimal.Zero
		f.UnitPrice = f.BuyingPrice
		f.TotalPrice = money.Mul(qty, f.UnitPrice)
		f.ProfitLoss = f.TotalPrice.Neg()
		return f, nil

	case entity.TransactionOut:
		if err := f.resolveFinalPrice(in.FinalPrice); err != nil {
			return Figures{}, err
		}
		if f.ApplyTaxes {
			f.UnitPrice = f.FinalPrice
		} else {
			f.UnitPrice = snapshot(in.UnitPrice, f.SellingPrice)
		}
		f.TotalPrice = money.Mul(qty, f.UnitPrice)
		revenue := money.Mul(qty, f.SellingPrice)
		if f.ApplyTaxes {
			revenue = money.Mul(qty, f.FinalPrice)
		}
		cost := money.Mul(qty, f.BuyingPrice)
		f.ProfitLoss = revenue.Sub(cost).Sub(f.WastageAmount)
		return f, nil

	case entity.TransactionIn, entity.TransactionReturn, entity.TransactionTransfer:
		if err := f.resolveFinalPrice(in.FinalPrice); err != nil {
			return Figures{}, err
		}
		f.UnitPrice = snapshot(in.UnitPrice, f.BuyingPrice)
		if in.Type == entity.TransactionTransfer {
			f.UnitPrice = f.BuyingPrice
		}
		f.TotalPrice = money.Mul(qty, f.UnitPrice)
		f.ProfitLoss = decimal.Zero
		return f, nil
	}
	return Figures{}, domain.Invalid("transaction_type", "tipo de transacción desconocido")
}

func (f *Figures) resolveFinalPrice(declared *decimal.Decimal) error {
	if f.ApplyTaxes && declared != nil && declared.IsPositive() {
		if err := ValidateRate("vat_rate", f.VATRate); err != nil {
			return err
		}
		if err := ValidateRate("ait_rate", f.AITRate); err != nil {
			return err
		}
		f.FinalPrice = money.Amount(*declared)
		return nil
	}
	final, err := FinalPriceFor(f.ApplyTaxes, f.SellingPrice, f.VATRate, f.AITRate)
	if err != nil {
		return err
	}
	f.FinalPrice = final
	return nil
}

func snapshot(declared *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if declared == nil || declared.IsZero() {
		return money.Amount(fallback)
	}
	return money.Amount(*declared)
}
