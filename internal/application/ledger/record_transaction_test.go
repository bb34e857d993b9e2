package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_SalidaSinImpuestos(t *testing.T) {
	f := newFixture(t)
	res, err := f.record.Record(context.Background(), ledger.RecordTransactionInput{
		Type: entity.TransactionOut, ProductID: "p-1", Quantity: d("10"),
	})
	require.NoError(t, err)

	txn := res.Transaction
	assert.Equal(t, "OUT-260314-0001", txn.TransactionID)
	assert.Equal(t, "150.00", txn.TotalPrice.StringFixed(2))
	assert.Equal(t, "50.00", txn.ProfitLoss.StringFixed(2))
	assert.Equal(t, "15.00", txn.UnitPrice.StringFixed(2))
	assert.Equal(t, entity.PaymentDue, txn.PaymentStatus)
	assert.Equal(t, "150.00", txn.AmountDue.StringFixed(2))
	assert.Equal(t, "wh-a", txn.SourceWarehouseID)
	assert.Nil(t, res.Invoice, "sin cliente no hay factura")
	assert.Nil(t, res.OpeningPayment)
	assert.Equal(t, "90", f.qty(t, "p-1"))
	assert.Contains(t, f.logs.String(), "transacción registrada")
}

func TestRecord_SalidaConImpuestos(t *testing.T) {
	f := newFixture(t)
	res, err := f.record.Record(context.Background(), ledger.RecordTransactionInput{
		Type: entity.TransactionOut, ProductID: "p-1", Quantity: d("10"),
		ApplyTaxes: true, VATRate: d("10"), AITRate: d("5"),
	})
	require.NoError(t, err)
	assert.Equal(t, "12.83", res.Transaction.FinalPrice.StringFixed(2))
	assert.Equal(t, "128.30", res.Transaction.TotalPrice.StringFixed(2))
	assert.True(t, res.Transaction.ApplyTaxes)
}

func TestRecord_TasaFueraDeRango(t *testing.T) {
	f := newFixture(t)
	_, err := f.record.Record(context.Background(), ledger.RecordTransactionInput{
		Type: entity.TransactionOut, ProductID: "p-1", Quantity: d("1"),
		ApplyTaxes: true, VATRate: d("100"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "100", f.qty(t, "p-1"))
}

func TestRecord_EntradaConProveedor(t *testing.T) {
	f := newFixture(t)
	res, err := f.record.Record(context.Background(), ledger.RecordTransactionInput{
		Type: entity.TransactionIn, ProductID: "p-1", Quantity: d("25.5"), SupplierID: "s-1",
		PaymentStatus: entity.PaymentPaid, UnitPrice: ptr("9.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "IN-260314-0001", res.Transaction.TransactionID)
	assert.Equal(t, "242.25", res.Transaction.TotalPrice.StringFixed(2))
	assert.Equal(t, "0", res.Transaction.ProfitLoss.String())
	assert.Equal(t, "242.25", res.Transaction.AmountPaid.StringFixed(2))
	require.NotNil(t, res.OpeningPayment)
	assert.Equal(t, entity.PaymentMethodCash, res.OpeningPayment.Method)
	assert.Equal(t, "125.5", f.qty(t, "p-1"))
}

func TestRecord_MermaSinPago(t *testing.T) {
	f := newFixture(t)
	res, err := f.record.Record(context.Background(), ledger.RecordTransactionInput{
		Type: entity.TransactionWastage, ProductID: "p-1", Quantity: d("3"),
		PaymentStatus: entity.PaymentPaid, ApplyTaxes: true, VATRate: d("10"),
	})
	require.NoError(t, err)
	txn := res.Transaction
	assert.Equal(t, "WST-260314-0001", txn.TransactionID)
	assert.Equal(t, entity.PaymentNA, txn.PaymentStatus)
	assert.False(t, txn.ApplyTaxes)
	assert.Equal(t, "30.00", txn.TotalPrice.StringFixed(2))
	assert.Equal(t, "-30.00", txn.ProfitLoss.StringFixed(2))
	assert.Equal(t, "97", f.qty(t, "p-1"))
}

func TestRecord_CodigosSecuencialesPorTipoYDia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	codes := []string{}
	for _, typ := range []entity.TransactionType{entity.TransactionIn, entity.TransactionIn, entity.TransactionOut} {
		res, err := f.record.Record(ctx, ledger.RecordTransactionInput{Type: typ, ProductID: "p-1", Quantity: d("1")})
		require.NoError(t, err)
		codes = append(codes, res.Transaction.TransactionID)
	}
	assert.Equal(t, []string{"IN-260314-0001", "IN-260314-0002", "OUT-260314-0001"}, codes)

	tomorrow := clock.AddDate(0, 0, 1)
	res, err := f.record.Record(ctx, ledger.RecordTransactionInput{
		Type: entity.TransactionIn, ProductID: "p-1", Quantity: d("1"), TransactionDate: &tomorrow,
	})
	require.NoError(t, err)
	assert.Equal(t, "IN-260315-0001", res.Transaction.TransactionID)
}

func TestRecord_CodigoUsaZonaHorariaDelNegocio(t *testing.T) {
	dhaka, err := time.LoadLocation("Asia/Dhaka")
	require.NoError(t, err)
	f := newFixture(t, func(deps *ledger.Deps) { deps.Config.Location = dhaka })

	late := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC) // 02:00 del 15 en Dhaka
	res, err := f.record.Record(context.Background(), ledger.RecordTransactionInput{
		Type: entity.TransactionIn, ProductID: "p-1", Quantity: d("1"), TransactionDate: &late,
	})
	require.NoError(t, err)
	assert.Equal(t, "IN-260315-0001", res.Transaction.TransactionID)
}

func TestRecord_StockInsuficienteNoModifica(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.record.Record(ctx, ledger.RecordTransactionInput{
		Type: entity.TransactionOut, ProductID: "p-1", Quantity: d("100.001"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "100", stockErr.Available.String())

	assert.Equal(t, "100", f.qty(t, "p-1"))
	list, err := f.queries.Transactions(ctx, repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Contains(t, f.logs.String(), "transacción rechazada")
}

func TestRecord_TrasladoCreaFilaDestino(t *testing.T) {
	f := newFixture(t)
	f.setQty(t, "p-1", "50")
	ctx := context.Background()

	res, err := f.record.Record(ctx, ledger.RecordTransactionInput{
		Type: entity.TransactionTransfer, ProductID: "p-1", Quantity: d("20"),
		SourceWarehouseID: "wh-a", DestinationWarehouseID: "wh-b",
	})
	require.NoError(t, err)
	txn := res.Transaction
	assert.Equal(t, "TRF-260314-0001", txn.TransactionID)
	assert.Equal(t, entity.PaymentNA, txn.PaymentStatus)
	assert.Equal(t, "200.00", txn.TotalPrice.StringFixed(2))
	require.NotEmpty(t, txn.DestinationProductID)
	require.NotNil(t, res.Movement.NewProduct)

	assert.Equal(t, "30", f.qty(t, "p-1"))
	dst, err := f.queries.ProductStock(ctx, txn.DestinationProductID)
	require.NoError(t, err)
	assert.Equal(t, "20", dst.Quantity.String())
	assert.Equal(t, "wh-b", dst.WarehouseID)
	assert.Equal(t, "X", dst.SKU)
	assert.Equal(t, "Arroz 1kg", dst.Name)
	assert.Equal(t, "grano largo", dst.Description)
	assert.Equal(t, "10", dst.BuyingPrice.String())

	sku, err := f.queries.SKUStock(ctx, "X")
	require.NoError(t, err)
	assert.Len(t, sku.Rows, 2)
	assert.Equal(t, "50", sku.Total.String(), "el traslado conserva el total del SKU")
}

func TestRecord_TrasladoAFilaExistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Repos().Products.Create(ctx, &entity.Product{
		ID: "p-2", SKU: "X", Name: "Arroz 1kg", Quantity: d("5"), WarehouseID: "wh-b",
	}))

	res, err := f.record.Record(ctx, ledger.RecordTransactionInput{
		Type: entity.TransactionTransfer, ProductID: "p-1", Quantity: d("40"),
		SourceWarehouseID: "wh-a", DestinationWarehouseID: "wh-b",
	})
	require.NoError(t, err)
	assert.Equal(t, "p-2", res.Transaction.DestinationProductID)
	assert.Nil(t, res.Movement.NewProduct)
	assert.Equal(t, "60", f.qty(t, "p-1"))
	assert.Equal(t, "45", f.qty(t, "p-2"))
}

func TestRecord_TrasladoInvalido(t *testing.T) {
	cases := []struct {
		name         string
		in           ledger.RecordTransactionInput
		insufficient bool
	}{
		{"sin origen", ledger.RecordTransactionInput{DestinationWarehouseID: "wh-b", Quantity: d("1")}, false},
		{"sin destino", ledger.RecordTransactionInput{SourceWarehouseID: "wh-a", Quantity: d("1")}, false},
		{"mismo origen y destino", ledger.RecordTransactionInput{SourceWarehouseID: "wh-a", DestinationWarehouseID: "wh-a", Quantity: d("1")}, false},
		{"producto en otra bodega", ledger.RecordTransactionInput{SourceWarehouseID: "wh-b", DestinationWarehouseID: "wh-a", Quantity: d("1")}, false},
		{"stock insuficiente", ledger.RecordTransactionInput{SourceWarehouseID: "wh-a", DestinationWarehouseID: "wh-b", Quantity: d("101")}, true},
		{"cantidad cero", ledger.RecordTransactionInput{SourceWarehouseID: "wh-a", DestinationWarehouseID: "wh-b", Quantity: d("0")}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			in := tc.in
			in.Type = entity.TransactionTransfer
			in.ProductID = "p-1"
			_, err := f.record.Record(context.Background(), in)
			require.ErrorIs(t, err, domain.ErrInvalidTransfer)
			assert.Equal(t, tc.insufficient, errors.Is(err, domain.ErrInsufficientStock))
			assert.Equal(t, "100", f.qty(t, "p-1"))
		})
	}
}

func TestRecord_ReferenciasInexistentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.record.Record(ctx, ledger.RecordTransactionInput{Type: entity.TransactionOut, ProductID: "nope", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.record.Record(ctx, ledger.RecordTransactionInput{Type: entity.TransactionOut, ProductID: "p-1", Quantity: d("1"), ClientID: "c-x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.record.Record(ctx, ledger.RecordTransactionInput{
		Type: entity.TransactionTransfer, ProductID: "p-1", Quantity: d("1"),
		SourceWarehouseID: "wh-a", DestinationWarehouseID: "wh-c",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "bodega destino inactiva")
	assert.Equal(t, "100", f.qty(t, "p-1"))
}

func TestRecord_ValidacionDeEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := map[string]ledger.RecordTransactionInput{
		"transaction_type": {Type: "robo", ProductID: "p-1", Quantity: d("1")},
		"product_id":       {Type: entity.TransactionIn, Quantity: d("1")},
		"quantity":         {Type: entity.TransactionIn, ProductID: "p-1", Quantity: d("-1")},
		"amount_paid":      {Type: entity.TransactionIn, ProductID: "p-1", Quantity: d("1"), AmountPaid: d("-5")},
		"unit_price":       {Type: entity.TransactionIn, ProductID: "p-1", Quantity: d("1"), UnitPrice: ptr("-1")},
		"payment_status":   {Type: entity.TransactionIn, ProductID: "p-1", Quantity: d("1"), PaymentStatus: "fiado"},
	}
	for field, in := range cases {
		_, err := f.record.Record(ctx, in)
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr), field)
		assert.Equal(t, field, vErr.Field)
	}
	assert.Equal(t, "100", f.qty(t, "p-1"))
}

func TestPreview_NoPersiste(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.record.Preview(ctx, ledger.RecordTransactionInput{
		Type: entity.TransactionOut, ProductID: "p-1", Quantity: d("10"),
	})
	require.NoError(t, err)
	assert.Empty(t, res.Transaction.TransactionID)
	assert.Equal(t, "150.00", res.Transaction.TotalPrice.StringFixed(2))
	require.Len(t, res.Movement.Changes, 1)
	assert.Equal(t, "90", res.Movement.Changes[0].After.String())

	assert.Equal(t, "100", f.qty(t, "p-1"))
	list, _ := f.queries.Transactions(ctx, repository.TransactionFilter{})
	assert.Empty(t, list)

	_, err = f.record.Preview(ctx, ledger.RecordTransactionInput{Type: entity.TransactionOut, ProductID: "p-1", Quantity: d("500")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestUpdate_SoloDetalles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.record.Record(ctx, ledger.RecordTransactionInput{Type: entity.TransactionOut, ProductID: "p-1", Quantity: d("10")})
	require.NoError(t, err)

	notes := "entregado en mostrador"
	due := clock.AddDate(0, 0, 15)
	updated, err := f.record.Update(ctx, res.Transaction.TransactionID, ledger.UpdateTransactionInput{Notes: &notes, PaymentDueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)

	got, err := f.queries.Transaction(ctx, res.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, notes, got.Notes)
	require.NotNil(t, got.PaymentDueDate)
	assert.True(t, due.Equal(*got.PaymentDueDate))
	assert.Equal(t, "150.00", got.TotalPrice.StringFixed(2))
	assert.Equal(t, "90", f.qty(t, "p-1"), "editar no re-aplica el movimiento")

	_, err = f.record.Update(ctx, "OUT-260314-9999", ledger.UpdateTransactionInput{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecord_ParcialQueCubreElTotalQuedaPagado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.record.Record(ctx, ledger.RecordTransactionInput{
		Type: entity.TransactionOut, ProductID: "p-1", Quantity: d("10"), ClientID: "c-1",
		PaymentStatus: entity.PaymentPartial, AmountPaid: d("500"),
	})
	require.NoError(t, err)
	txn := res.Transaction
	assert.Equal(t, entity.PaymentPaid, txn.PaymentStatus)
	assert.Equal(t, "150.00", txn.AmountPaid.StringFixed(2))
	assert.Equal(t, "0.00", txn.AmountDue.StringFixed(2))
	require.NotNil(t, res.OpeningPayment)
	assert.Equal(t, "150.00", res.OpeningPayment.Amount.StringFixed(2))
	require.NotNil(t, res.Invoice)
	assert.Equal(t, entity.InvoiceStatusPaid, res.Invoice.Status)

	history, err := f.queries.Payments(ctx, txn.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Amount.Equal(txn.TotalPrice), "los pagos suman el total")
}

func TestRecord_MontosFueraDePrecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cases := map[string]ledger.RecordTransactionInput{
		"quantity":       {Type: entity.TransactionIn, ProductID: "p-1", Quantity: d("100000000000")},
		"unit_price":     {Type: entity.TransactionIn, ProductID: "p-1", Quantity: d("1"), UnitPrice: ptr("1000000000000")},
		"wastage_amount": {Type: entity.TransactionWastage, ProductID: "p-1", Quantity: d("1"), WastageAmount: d("1e13")},
		"total_price":    {Type: entity.TransactionIn, ProductID: "p-1", Quantity: d("10000000000"), UnitPrice: ptr("1000")},
	}
	for field, in := range cases {
		_, err := f.record.Record(ctx, in)
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr), field)
		assert.Equal(t, field, vErr.Field)
	}

	f.setQty(t, "p-1", "99999999999")
	_, err := f.record.Record(ctx, ledger.RecordTransactionInput{Type: entity.TransactionIn, ProductID: "p-1", Quantity: d("1"), UnitPrice: ptr("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la cantidad resultante no cabe")
	assert.Equal(t, "99999999999", f.qty(t, "p-1"))
}

func TestUpdate_VencimientoSigueEnFacturaPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pending, err := f.record.Record(ctx, ledger.RecordTransactionInput{
		Type: entity.TransactionOut, ProductID: "p-1", Quantity: d("2"), ClientID: "c-1",
	})
	require.NoError(t, err)
	paid, err := f.record.Record(ctx, ledger.RecordTransactionInput{
		Type: entity.TransactionOut, ProductID: "p-1", Quantity: d("2"), ClientID: "c-1",
		PaymentStatus: entity.PaymentPaid,
	})
	require.NoError(t, err)

	due := clock.AddDate(0, 0, 45)
	for _, res := range []*ledger.RecordResult{pending, paid} {
		_, err := f.record.Update(ctx, res.Transaction.ID, ledger.UpdateTransactionInput{PaymentDueDate: &due})
		require.NoError(t, err)
	}

	inv, err := f.queries.Invoice(ctx, pending.Invoice.ID)
	require.NoError(t, err)
	assert.True(t, inv.DueDate.Equal(due))

	inv, err = f.queries.Invoice(ctx, paid.Invoice.ID)
	require.NoError(t, err)
	assert.True(t, inv.DueDate.Equal(clock.AddDate(0, 0, 30)), "una factura pagada conserva su vencimiento")

	notes := "sin cambio de vencimiento"
	_, err = f.record.Update(ctx, pending.Transaction.ID, ledger.UpdateTransactionInput{Notes: &notes})
	require.NoError(t, err)
	inv, err = f.queries.Invoice(ctx, pending.Invoice.ID)
	require.NoError(t, err)
	assert.True(t, inv.DueDate.Equal(due))
}
