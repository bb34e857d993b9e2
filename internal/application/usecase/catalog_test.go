package usecase_test

import (
	"context"
	"testing"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalog struct {
	store      *memory.Store
	warehouses *usecase.WarehouseUseCase
	products   *usecase.ProductUseCase
	clients    *usecase.ClientUseCase
	suppliers  *usecase.SupplierUseCase
	categories *usecase.CategoryUseCase
}

func newCatalog() *catalog {
	store := memory.NewStore()
	repos := store.Repos()
	return &catalog{
		store:      store,
		warehouses: usecase.NewWarehouseUseCase(repos.Warehouses, repos.Products),
		products:   usecase.NewProductUseCase(repos.Products, repos.Warehouses, repos.Suppliers, store.Categories()),
		clients:    usecase.NewClientUseCase(repos.Clients),
		suppliers:  usecase.NewSupplierUseCase(repos.Suppliers),
		categories: usecase.NewCategoryUseCase(store.Categories()),
	}
}

func ptr[T any](v T) *T { return &v }

func TestWarehouse_CRUD(t *testing.T) {
	ctx := context.Background()
	c := newCatalog()

	w, err := c.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Central", Location: "Dhaka"})
	require.NoError(t, err)
	assert.True(t, w.Active)

	got, err := c.warehouses.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Central", got.Name)

	upd, err := c.warehouses.Update(ctx, w.ID, dto.UpdateWarehouseRequest{Location: ptr("Chittagong"), Active: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Chittagong", upd.Location)
	assert.False(t, upd.Active)

	list, err := c.warehouses.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	require.NoError(t, c.warehouses.Delete(ctx, w.ID))
	_, err = c.warehouses.GetByID(ctx, w.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWarehouse_CreateValidation(t *testing.T) {
	_, err := newCatalog().warehouses.Create(context.Background(), dto.CreateWarehouseRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWarehouse_DeleteConProductos(t *testing.T) {
	ctx := context.Background()
	c := newCatalog()
	w, err := c.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Central"})
	require.NoError(t, err)
	_, err = c.products.Create(ctx, dto.CreateProductRequest{SKU: "X", Name: "Arroz", WarehouseID: w.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, c.warehouses.Delete(ctx, w.ID), domain.ErrConflict)
	assert.ErrorIs(t, c.warehouses.Delete(ctx, "no-existe"), domain.ErrNotFound)
}

func TestProduct_CreateIniciaEnCero(t *testing.T) {
	ctx := context.Background()
	c := newCatalog()
	w, err := c.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Central"})
	require.NoError(t, err)

	p, err := c.products.Create(ctx, dto.CreateProductRequest{
		SKU:          "X",
		Name:         "Arroz 1kg",
		WarehouseID:  w.ID,
		ReorderLevel: decimal.NewFromInt(5),
		BuyingPrice:  decimal.RequireFromString("10.005"),
		SellingPrice: decimal.NewFromInt(15),
	})
	require.NoError(t, err)
	assert.True(t, p.Quantity.IsZero())
	assert.True(t, p.LowStock)
	assert.Equal(t, "unit", p.UnitMeasure)
	assert.Equal(t, "10.01", p.BuyingPrice.StringFixed(2))

	_, err = c.products.Create(ctx, dto.CreateProductRequest{SKU: "X", Name: "Otro", WarehouseID: w.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProduct_CreateReferencias(t *testing.T) {
	ctx := context.Background()
	c := newCatalog()
	inactive, err := c.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "Vieja", Active: ptr(false)})
	require.NoError(t, err)

	cases := map[string]dto.CreateProductRequest{
		"bodega inexistente":    {SKU: "X", Name: "A", WarehouseID: "wh-z"},
		"proveedor inexistente": {SKU: "X", Name: "A", SupplierID: "s-z"},
		"categoría inexistente": {SKU: "X", Name: "A", CategoryID: "cat-z"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.products.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}

	_, err = c.products.Create(ctx, dto.CreateProductRequest{SKU: "X", Name: "A", WarehouseID: inactive.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.products.Create(ctx, dto.CreateProductRequest{SKU: "X", Name: "A", BuyingPrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_UpdateSoloDescriptivos(t *testing.T) {
	ctx := context.Background()
	c := newCatalog()
	cat, err := c.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Granos"})
	require.NoError(t, err)
	p, err := c.products.Create(ctx, dto.CreateProductRequest{SKU: "X", Name: "Arroz"})
	require.NoError(t, err)

	upd, err := c.products.Update(ctx, p.ID, dto.UpdateProductRequest{
		Name:         ptr("Arroz largo"),
		CategoryID:   ptr(cat.ID),
		SellingPrice: ptr(decimal.NewFromInt(18)),
	})
	require.NoError(t, err)
	assert.Equal(t, "Arroz largo", upd.Name)
	assert.Equal(t, cat.ID, upd.CategoryID)
	assert.Equal(t, "18.00", upd.SellingPrice.StringFixed(2))
	assert.True(t, upd.Quantity.IsZero())

	_, err = c.products.Update(ctx, p.ID, dto.UpdateProductRequest{ReorderLevel: ptr(decimal.NewFromInt(-2))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.products.Update(ctx, "no-existe", dto.UpdateProductRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProduct_ListPorSKU(t *testing.T) {
	ctx := context.Background()
	c := newCatalog()
	a, _ := c.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "A"})
	b, _ := c.warehouses.Create(ctx, dto.CreateWarehouseRequest{Name: "B"})
	for _, w := range []string{a.ID, b.ID} {
		_, err := c.products.Create(ctx, dto.CreateProductRequest{SKU: "X", Name: "Arroz", WarehouseID: w})
		require.NoError(t, err)
	}
	_, err := c.products.Create(ctx, dto.CreateProductRequest{SKU: "Y", Name: "Azúcar", WarehouseID: a.ID})
	require.NoError(t, err)

	list, err := c.products.List(ctx, "", "X", 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	list, err = c.products.List(ctx, a.ID, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
}

func TestParties(t *testing.T) {
	ctx := context.Background()
	c := newCatalog()

	cl, err := c.clients.Create(ctx, dto.PartyRequest{Name: "Karim Traders", Email: "karim@example.com"})
	require.NoError(t, err)
	upd, err := c.clients.Update(ctx, cl.ID, dto.UpdatePartyRequest{Phone: ptr("01700000000")})
	require.NoError(t, err)
	assert.Equal(t, "01700000000", upd.Phone)
	assert.Equal(t, "karim@example.com", upd.Email)

	_, err = c.clients.Create(ctx, dto.PartyRequest{Name: "X", Email: "no-es-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	s, err := c.suppliers.Create(ctx, dto.PartyRequest{Name: "Rice Mills"})
	require.NoError(t, err)
	got, err := c.suppliers.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rice Mills", got.Name)

	_, err = c.clients.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	clients, err := c.clients.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, clients.Items, 1)
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	c := newCatalog()
	_, err := c.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Granos"})
	require.NoError(t, err)
	_, err = c.categories.Create(ctx, dto.CreateCategoryRequest{Name: "Granos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := c.categories.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
