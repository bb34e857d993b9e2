package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	r := s.Repos()
	require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "wh-a", Name: "Central", Active: true}))
	require.NoError(t, r.Products.Create(ctx, &entity.Product{ID: "p-1", SKU: "X", Quantity: d("50"), WarehouseID: "wh-a"}))
}

func TestRun_RollbackDescartaCambios(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(r ledger.TxRepos) error {
		require.NoError(t, r.Products.UpdateStock(ctx, "p-1", d("50"), d("10"), "wh-a"))
		p, _ := r.Products.GetByID(ctx, "p-1")
		assert.Equal(t, "10", p.Quantity.String(), "dentro de la transacción se ve el cambio")
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.Repos().Products.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "50", p.Quantity.String())
}

func TestRun_CommitPublica(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, func(r ledger.TxRepos) error {
		return r.Products.UpdateStock(ctx, "p-1", d("50"), d("30"), "wh-a")
	}))
	p, _ := s.Repos().Products.GetByID(ctx, "p-1")
	assert.Equal(t, "30", p.Quantity.String())
}

func TestUpdateStock_CASConflicto(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	err := s.Repos().Products.UpdateStock(context.Background(), "p-1", d("49"), d("40"), "wh-a")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProducts_SKUUnicoPorBodega(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	err := s.Repos().Products.Create(ctx, &entity.Product{ID: "p-2", SKU: "X", WarehouseID: "wh-a"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, s.Repos().Products.Create(ctx, &entity.Product{ID: "p-3", SKU: "X", WarehouseID: "wh-b"}))
	rows, err := s.Repos().Products.ListBySKU(ctx, "X")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestProducts_CopiaAislada(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	p, _ := s.Repos().Products.GetByID(ctx, "p-1")
	p.Quantity = d("999")
	again, _ := s.Repos().Products.GetByID(ctx, "p-1")
	assert.Equal(t, "50", again.Quantity.String())
}

func TestWarehouseDelete_ConProductos(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	assert.ErrorIs(t, s.Repos().Warehouses.Delete(ctx, "wh-a"), domain.ErrConflict)

	require.NoError(t, s.Repos().Warehouses.Create(ctx, &entity.Warehouse{ID: "wh-z", Name: "Vacía"}))
	require.NoError(t, s.Repos().Warehouses.Delete(ctx, "wh-z"))
	w, err := s.Repos().Warehouses.GetByID(ctx, "wh-z")
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestTransactions_ListarYContar(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	r := s.Repos()
	day := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i, code := range []string{"IN-260314-0001", "IN-260314-0002", "OUT-260314-0001"} {
		typ := entity.TransactionIn
		if i == 2 {
			typ = entity.TransactionOut
		}
		require.NoError(t, r.Transactions.Create(ctx, &entity.StockTransaction{
			ID: code, TransactionID: code, Type: typ, ProductID: "p-1",
			TransactionDate: day.Add(time.Duration(i) * time.Hour),
		}))
	}
	err := r.Transactions.Create(ctx, &entity.StockTransaction{ID: "otro", TransactionID: "IN-260314-0001"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	start := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	n, err := r.Transactions.CountByTypeBetween(ctx, entity.TransactionIn, start, start.AddDate(0, 0, 1).Add(-time.Nanosecond))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	list, err := r.Transactions.List(ctx, repository.TransactionFilter{Type: entity.TransactionIn})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "IN-260314-0002", list[0].TransactionID, "más recientes primero")

	byCode, err := r.Transactions.GetByCode(ctx, "OUT-260314-0001")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, entity.TransactionOut, byCode.Type)
}

func TestPayments_Suma(t *testing.T) {
	s := memory.NewStore()
	seed(t, s)
	ctx := context.Background()
	r := s.Repos()
	require.NoError(t, r.Transactions.Create(ctx, &entity.StockTransaction{ID: "t-1", TransactionID: "OUT-260314-0001"}))
	require.NoError(t, r.Payments.Create(ctx, &entity.Payment{ID: "pay-1", TransactionID: "t-1", Amount: d("80")}))
	require.NoError(t, r.Payments.Create(ctx, &entity.Payment{ID: "pay-2", TransactionID: "t-1", Amount: d("120")}))

	sum, err := r.Payments.SumByTransaction(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "200", sum.String())

	err = r.Payments.Create(ctx, &entity.Payment{ID: "pay-3", TransactionID: "nope", Amount: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoices_UnicidadYBusquedas(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	r := s.Repos()
	inv := &entity.Invoice{ID: "inv-1", InvoiceNumber: "000007", StockTransactionID: "t-1", Notes: entity.InvoiceTag("t-1") + " OUT-260314-0001"}
	require.NoError(t, r.Invoices.Create(ctx, inv))
	require.NoError(t, r.Invoices.CreateItem(ctx, &entity.InvoiceItem{ID: "it-1", InvoiceID: "inv-1", ProductID: "p-1"}))
	require.NoError(t, r.Invoices.Create(ctx, &entity.Invoice{ID: "inv-2", InvoiceNumber: "LEG-1"}))

	assert.ErrorIs(t, r.Invoices.Create(ctx, &entity.Invoice{ID: "inv-3", InvoiceNumber: "000007"}), domain.ErrDuplicate)
	assert.ErrorIs(t, r.Invoices.Create(ctx, &entity.Invoice{ID: "inv-4", InvoiceNumber: "000008", StockTransactionID: "t-1"}), domain.ErrDuplicate)

	got, err := r.Invoices.GetByNumber(ctx, "000007")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Items, 1)

	tagged, err := r.Invoices.FindByNotesTag(ctx, entity.InvoiceTag("t-1"))
	require.NoError(t, err)
	require.NotNil(t, tagged)
	assert.Equal(t, "inv-1", tagged.ID)

	highest, err := r.Invoices.MaxNumericNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), highest, "los números no numéricos se ignoran")
}

func TestSequences_SembradoEIncremento(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	seq := s.Repos().Sequences
	calls := 0
	seedFn := func(context.Context) (int64, error) {
		calls++
		return 4, nil
	}
	n, err := seq.Next(ctx, "invoice", seedFn)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	n, err = seq.Next(ctx, "invoice", seedFn)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
	assert.Equal(t, 1, calls)
}

func TestSequences_RollbackConLaTransaccion(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	zero := func(context.Context) (int64, error) { return 0, nil }
	_ = s.Run(ctx, func(r ledger.TxRepos) error {
		_, err := r.Sequences.Next(ctx, "k", zero)
		require.NoError(t, err)
		return errors.New("abort")
	})
	n, err := s.Repos().Sequences.Next(ctx, "k", zero)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
