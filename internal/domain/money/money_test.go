package money_test

import (
	"testing"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAmount_RedondeaMitadHaciaArriba(t *testing.T) {
	assert.True(t, money.Amount(d("12.825")).Equal(d("12.83")))
	assert.True(t, money.Amount(d("12.824")).Equal(d("12.82")))
	assert.True(t, money.Amount(d("-0.005")).Equal(d("-0.01")))
}

func TestQty_TresDecimales(t *testing.T) {
	assert.True(t, money.Qty(d("1.23456")).Equal(d("1.235")))
}

func TestMul_RedondeaAlAlmacenar(t *testing.T) {
	assert.True(t, money.Mul(d("3"), d("0.333")).Equal(d("1.00")))
	assert.True(t, money.Mul(d("10"), d("12.83")).Equal(d("128.30")))
}

func TestSumasRepetidas_SinDeriva(t *testing.T) {
	total := decimal.Zero
	for i := 0; i < 1000; i++ {
		total = total.Add(d("0.1"))
	}
	assert.True(t, total.Equal(d("100")))
}

func TestApplyDeduction(t *testing.T) {
	got := money.ApplyDeduction(d("15"), d("10"))
	assert.True(t, got.Equal(d("13.5")), got.String())
}

func TestMin(t *testing.T) {
	assert.True(t, money.Min(d("1"), d("2")).Equal(d("1")))
	assert.True(t, money.Min(d("5"), d("2")).Equal(d("2")))
}

func TestCheckAmount_PrecisionDeColumna(t *testing.T) {
	assert.NoError(t, money.CheckAmount("unit_price", d("999999999999.99")))
	assert.NoError(t, money.CheckAmount("profit_loss", d("-999999999999.99")))
	assert.ErrorIs(t, money.CheckAmount("unit_price", d("1000000000000")), domain.ErrInvalidInput)
	assert.ErrorIs(t, money.CheckAmount("unit_price", d("999999999999.995")), domain.ErrInvalidInput)
	assert.ErrorIs(t, money.CheckAmount("profit_loss", d("-1000000000000")), domain.ErrInvalidInput)

	var ve *domain.ValidationError
	err := money.CheckAmount("selling_price", d("5e12"))
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "selling_price", ve.Field)
	}
}

func TestCheckQty_PrecisionDeColumna(t *testing.T) {
	assert.NoError(t, money.CheckQty("quantity", d("99999999999.999")))
	assert.ErrorIs(t, money.CheckQty("quantity", d("100000000000")), domain.ErrInvalidInput)
}
