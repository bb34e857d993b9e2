package ledger_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var clock = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

type fixture struct {
	store    *memory.Store
	record   *ledger.RecordTransactionUseCase
	payments *ledger.RecordPaymentUseCase
	invoices *ledger.InvoiceGenerator
	queries  *ledger.QueryUseCase
	logs     *bytes.Buffer
}

// newFixture bodegas A y B activas, C inactiva, un cliente, un proveedor y el producto P
// (SKU X, compra 10.00, venta 15.00, cantidad 100 en A).
func newFixture(t *testing.T, opts ...func(*ledger.Deps)) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	r := store.Repos()
	require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "wh-a", Name: "A", Active: true}))
	require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "wh-b", Name: "B", Active: true}))
	require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "wh-c", Name: "C", Active: false}))
	require.NoError(t, r.Clients.Create(ctx, &entity.Client{ID: "c-1", Name: "Tienda Norte"}))
	require.NoError(t, r.Suppliers.Create(ctx, &entity.Supplier{ID: "s-1", Name: "Molinos SA"}))
	require.NoError(t, r.Products.Create(ctx, &entity.Product{
		ID:           "p-1",
		Name:         "Arroz 1kg",
		SKU:          "X",
		Description:  "grano largo",
		UnitMeasure:  "unidad",
		Quantity:     d("100"),
		ReorderLevel: d("10"),
		WarehouseID:  "wh-a",
		BuyingPrice:  d("10.00"),
		SellingPrice: d("15.00"),
		CreatedAt:    clock.Add(-time.Hour),
	}))

	logs := &bytes.Buffer{}
	deps := ledger.Deps{
		Tx:     store,
		Reader: store.Repos(),
		Log:    logger.NewWithWriter(logs, "info"),
		Clock:  func() time.Time { return clock },
	}
	for _, o := range opts {
		o(&deps)
	}
	invoices := ledger.NewInvoiceGenerator(deps)
	return &fixture{
		store:    store,
		record:   ledger.NewRecordTransactionUseCase(deps, invoices),
		payments: ledger.NewRecordPaymentUseCase(deps),
		invoices: invoices,
		queries:  ledger.NewQueryUseCase(deps),
		logs:     logs,
	}
}

func (f *fixture) qty(t *testing.T, productID string) string {
	t.Helper()
	p, err := f.queries.ProductStock(context.Background(), productID)
	require.NoError(t, err)
	return p.Quantity.String()
}

func (f *fixture) setQty(t *testing.T, productID, qty string) {
	t.Helper()
	ctx := context.Background()
	p, err := f.store.Repos().Products.GetByID(ctx, productID)
	require.NoError(t, err)
	require.NoError(t, f.store.Repos().Products.UpdateStock(ctx, productID, p.Quantity, d(qty), p.WarehouseID))
}
