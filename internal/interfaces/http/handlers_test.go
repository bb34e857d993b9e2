package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var clock = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

type server struct {
	app   *fiber.App
	store *memory.Store
	logs  *bytes.Buffer
}

// newServer API completa sobre el store en memoria con las bodegas wh-a y wh-b, el cliente c-1
// y el producto p-1 (SKU X, 100 unidades en wh-a, venta 15.00).
func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	r := store.Repos()
	require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "wh-a", Name: "A", Active: true}))
	require.NoError(t, r.Warehouses.Create(ctx, &entity.Warehouse{ID: "wh-b", Name: "B", Active: true}))
	require.NoError(t, r.Clients.Create(ctx, &entity.Client{ID: "c-1", Name: "Tienda Norte"}))
	require.NoError(t, r.Products.Create(ctx, &entity.Product{
		ID: "p-1", Name: "Arroz 1kg", SKU: "X", Quantity: decimal.NewFromInt(100),
		ReorderLevel: decimal.NewFromInt(10), WarehouseID: "wh-a",
		BuyingPrice: decimal.NewFromInt(10), SellingPrice: decimal.NewFromInt(15),
	}))

	logs := &bytes.Buffer{}
	log := logger.NewWithWriter(logs, "info")
	deps := ledger.Deps{
		Tx:     store,
		Reader: store.Repos(),
		Log:    log,
		Clock:  func() time.Time { return clock },
	}
	invoices := ledger.NewInvoiceGenerator(deps)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		WarehouseUC:  usecase.NewWarehouseUseCase(r.Warehouses, r.Products),
		ProductUC:    usecase.NewProductUseCase(r.Products, r.Warehouses, r.Suppliers, store.Categories()),
		ClientUC:     usecase.NewClientUseCase(r.Clients),
		SupplierUC:   usecase.NewSupplierUseCase(r.Suppliers),
		CategoryUC:   usecase.NewCategoryUseCase(store.Categories()),
		Transactions: ledger.NewRecordTransactionUseCase(deps, invoices),
		Payments:     ledger.NewRecordPaymentUseCase(deps),
		Invoices:     invoices,
		Queries:      ledger.NewQueryUseCase(deps),
		JWTSecret:    testJWTSecret,
	})
	return &server{app: app, store: store, logs: logs}
}

// call lanza la petición con un token del rol dado y devuelve estado y cuerpo.
func (s *server) call(t *testing.T, method, path, role, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

const sale = `{"transaction_type":"out","product_id":"p-1","quantity":"10","unit_price":"20.00",
	"client_id":"c-1","payment_status":"partial","amount_paid":"80","payment_method":"bank"}`

func TestTransactions_VentaConFacturaYPagos(t *testing.T) {
	s := newServer(t)

	code, body := s.call(t, http.MethodPost, "/api/transactions", "vendedor", sale)
	require.Equal(t, http.StatusCreated, code, string(body))
	rec := decode[dto.RecordTransactionResponse](t, body)
	assert.Equal(t, "OUT-260314-0001", rec.Transaction.TransactionID)
	assert.Equal(t, "200.00", rec.Transaction.TotalPrice.StringFixed(2))
	assert.Equal(t, "120.00", rec.Transaction.AmountDue.StringFixed(2))
	assert.Equal(t, testUserID, rec.Transaction.CreatedBy)
	require.NotNil(t, rec.OpeningPayment)
	require.NotNil(t, rec.Invoice)
	assert.Equal(t, "000001", rec.Invoice.InvoiceNumber)
	require.Len(t, rec.Movement.Changes, 1)
	assert.Equal(t, "90", rec.Movement.Changes[0].After.String())

	code, body = s.call(t, http.MethodPost, "/api/transactions/OUT-260314-0001/payments", "vendedor",
		`{"amount":"150","payment_method":"cash"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "OVERPAYMENT", decode[dto.ErrorResponse](t, body).Code)

	code, body = s.call(t, http.MethodPost, "/api/transactions/OUT-260314-0001/payments", "vendedor",
		`{"amount":"120","payment_method":"cash","reference":"R-9"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	paid := decode[dto.RecordPaymentResponse](t, body)
	assert.Equal(t, "paid", paid.Transaction.PaymentStatus)
	assert.True(t, paid.Transaction.AmountDue.IsZero())

	code, body = s.call(t, http.MethodGet, "/api/transactions/OUT-260314-0001/payments", "bodeguero", "")
	require.Equal(t, http.StatusOK, code)
	payments := decode[dto.PaymentListResponse](t, body)
	assert.Len(t, payments.Items, 2)
	assert.Equal(t, "200.00", payments.Total.StringFixed(2))

	code, body = s.call(t, http.MethodGet, "/api/invoices/number/000001", "bodeguero", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, entity.InvoiceStatusPaid, decode[dto.InvoiceResponse](t, body).Status)

	code, body = s.call(t, http.MethodPost, "/api/transactions/OUT-260314-0001/invoice", "admin", "")
	require.Equal(t, http.StatusOK, code, string(body))
	gen := decode[dto.GenerateInvoiceResponse](t, body)
	assert.False(t, gen.Created)
	assert.Equal(t, "000001", gen.Invoice.InvoiceNumber)
}

func TestTransactions_ErroresMapeados(t *testing.T) {
	s := newServer(t)

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"stock insuficiente", `{"transaction_type":"out","product_id":"p-1","quantity":"101"}`, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"tipo desconocido", `{"transaction_type":"gift","product_id":"p-1","quantity":"1"}`, http.StatusBadRequest, "VALIDATION"},
		{"producto inexistente", `{"transaction_type":"in","product_id":"p-z","quantity":"1"}`, http.StatusNotFound, "NOT_FOUND"},
		{"traslado a la misma bodega", `{"transaction_type":"transfer","product_id":"p-1","quantity":"1","source_warehouse_id":"wh-a","destination_warehouse_id":"wh-a"}`, http.StatusUnprocessableEntity, "INVALID_TRANSFER"},
		{"cuerpo inválido", `{"transaction_type":`, http.StatusBadRequest, "INVALID_BODY"},
		{"cantidad fuera de precisión", `{"transaction_type":"in","product_id":"p-1","quantity":"100000000000"}`, http.StatusBadRequest, "VALIDATION"},
		{"precio fuera de precisión", `{"transaction_type":"in","product_id":"p-1","quantity":"1","unit_price":"1000000000000"}`, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := s.call(t, http.MethodPost, "/api/transactions", "bodeguero", tc.body)
			assert.Equal(t, tc.status, code, string(body))
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, body).Code)
		})
	}

	code, body := s.call(t, http.MethodGet, "/api/inventory/products/p-1", "vendedor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "100", decode[dto.ProductResponse](t, body).Quantity.String(), "ningún error modifica el stock")
}

func TestTransactions_ValidacionIndicaCampo(t *testing.T) {
	s := newServer(t)
	code, body := s.call(t, http.MethodPost, "/api/transactions", "admin",
		`{"transaction_type":"out","product_id":"p-1","quantity":"1","payment_method":"gold"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	e := decode[dto.ErrorResponse](t, body)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "payment_method", e.Field)
}

func TestTransactions_TrasladoYStockPorSKU(t *testing.T) {
	s := newServer(t)
	code, body := s.call(t, http.MethodPost, "/api/transactions", "bodeguero",
		`{"transaction_type":"transfer","product_id":"p-1","quantity":"30","source_warehouse_id":"wh-a","destination_warehouse_id":"wh-b"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	rec := decode[dto.RecordTransactionResponse](t, body)
	assert.True(t, rec.Movement.CreatedDestination)
	assert.NotEmpty(t, rec.Movement.DestinationProductID)
	assert.Equal(t, "na", rec.Transaction.PaymentStatus)

	code, body = s.call(t, http.MethodGet, "/api/inventory/sku/X", "vendedor", "")
	require.Equal(t, http.StatusOK, code)
	stock := decode[dto.SKUStockResponse](t, body)
	assert.Len(t, stock.Rows, 2)
	assert.Equal(t, "100", stock.Total.String())
}

func TestTransactions_PreviewNoEscribe(t *testing.T) {
	s := newServer(t)
	code, body := s.call(t, http.MethodPost, "/api/transactions/preview", "vendedor",
		`{"transaction_type":"out","product_id":"p-1","quantity":"5"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, "75.00", decode[dto.RecordTransactionResponse](t, body).Transaction.TotalPrice.StringFixed(2))

	code, body = s.call(t, http.MethodGet, "/api/transactions", "vendedor", "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[dto.TransactionListResponse](t, body).Items)
}

func TestTransactions_HistorialYEdicion(t *testing.T) {
	s := newServer(t)
	for _, b := range []string{
		`{"transaction_type":"in","product_id":"p-1","quantity":"5"}`,
		`{"transaction_type":"out","product_id":"p-1","quantity":"2"}`,
	} {
		code, body := s.call(t, http.MethodPost, "/api/transactions", "bodeguero", b)
		require.Equal(t, http.StatusCreated, code, string(body))
	}

	code, body := s.call(t, http.MethodGet, "/api/transactions?type=in&from=2026-03-14&to=2026-03-14", "vendedor", "")
	require.Equal(t, http.StatusOK, code, string(body))
	list := decode[dto.TransactionListResponse](t, body)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "IN-260314-0001", list.Items[0].TransactionID)

	code, body = s.call(t, http.MethodGet, "/api/transactions?from=14-03-2026", "vendedor", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "from", decode[dto.ErrorResponse](t, body).Field)

	code, body = s.call(t, http.MethodPatch, "/api/transactions/IN-260314-0001", "bodeguero", `{"notes":"lote 7"}`)
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, "lote 7", decode[dto.TransactionResponse](t, body).Notes)

	code, _ = s.call(t, http.MethodGet, "/api/transactions/IN-999999-0001", "vendedor", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRoles_PorRuta(t *testing.T) {
	s := newServer(t)

	code, _ := s.call(t, http.MethodPost, "/api/transactions", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.call(t, http.MethodPost, "/api/transactions/OUT-260314-0001/payments", "bodeguero", `{"amount":"1","payment_method":"cash"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.call(t, http.MethodDelete, "/api/warehouses/wh-b", "bodeguero", "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.call(t, http.MethodPost, "/api/products", "vendedor", `{"sku":"Y","name":"Azúcar"}`)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestCatalog_Endpoints(t *testing.T) {
	s := newServer(t)

	code, body := s.call(t, http.MethodPost, "/api/products", "bodeguero",
		`{"sku":"Y","name":"Azúcar","warehouse_id":"wh-a","selling_price":"3.50","reorder_level":"2"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	p := decode[dto.ProductResponse](t, body)
	assert.True(t, p.Quantity.IsZero())

	code, body = s.call(t, http.MethodPost, "/api/products", "bodeguero", `{"sku":"Y","name":"Otra","warehouse_id":"wh-a"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, body).Code)

	code, body = s.call(t, http.MethodGet, "/api/inventory/low-stock?warehouse_id=wh-a", "vendedor", "")
	require.Equal(t, http.StatusOK, code)
	low := decode[dto.ProductListResponse](t, body)
	require.Len(t, low.Items, 1)
	assert.Equal(t, p.ID, low.Items[0].ID)

	code, body = s.call(t, http.MethodDelete, "/api/warehouses/wh-a", "admin", "")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", decode[dto.ErrorResponse](t, body).Code)

	code, _ = s.call(t, http.MethodDelete, "/api/warehouses/wh-b", "admin", "")
	assert.Equal(t, http.StatusNoContent, code)

	code, body = s.call(t, http.MethodPost, "/api/clients", "vendedor", `{"name":"Karim Traders"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	code, body = s.call(t, http.MethodGet, "/api/clients?limit=500", "vendedor", "")
	require.Equal(t, http.StatusOK, code)
	clients := decode[dto.PartyListResponse](t, body)
	assert.Len(t, clients.Items, 2)
	assert.Equal(t, 100, clients.Page.Limit)

	code, body = s.call(t, http.MethodPost, "/api/categories", "admin", `{"name":"Granos"}`)
	require.Equal(t, http.StatusCreated, code, string(body))
	code, _ = s.call(t, http.MethodGet, "/api/categories/no-existe", "admin", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestErrorHandler_YRequestLogger(t *testing.T) {
	logs := &bytes.Buffer{}
	log := logger.NewWithWriter(logs, "info")
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestLogger(log))
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pgx: conexión perdida") })
	app.Get("/missing", func(c *fiber.Ctx) error { return domain.NotFound("producto", "p-9") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	resp.Body.Close()
	assert.Equal(t, "INTERNAL", e.Code)
	assert.Equal(t, "error interno", e.Message)
	assert.Contains(t, logs.String(), "error no controlado")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, logs.String(), `"path":"/missing"`)
	assert.Contains(t, logs.String(), `"status":404`)
}
