package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC  *usecase.WarehouseUseCase
	ProductUC    *usecase.ProductUseCase
	ClientUC     *usecase.ClientUseCase
	SupplierUC   *usecase.SupplierUseCase
	CategoryUC   *usecase.CategoryUseCase
	Transactions *ledger.RecordTransactionUseCase
	Payments     *ledger.RecordPaymentUseCase
	Invoices     *ledger.InvoiceGenerator
	Queries      *ledger.QueryUseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Lecturas: cualquier usuario autenticado;
// escrituras según rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	catalogWrite := RequireRole(RoleAdmin, RoleBodeguero)
	ledgerWrite := RequireRole(RoleAdmin, RoleBodeguero, RoleVendedor)
	salesWrite := RequireRole(RoleAdmin, RoleVendedor)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", catalogWrite, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", catalogWrite, warehouseHandler.Update)
	warehouses.Delete("/:id", RequireRole(RoleAdmin), warehouseHandler.Delete)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", catalogWrite, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", catalogWrite, productHandler.Update)

	// Categories
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", catalogWrite, categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)

	// Clients y suppliers
	clients := protected.Group("/clients")
	clientHandler := NewPartyHandler(deps.ClientUC)
	clients.Post("/", salesWrite, clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", salesWrite, clientHandler.Update)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewPartyHandler(deps.SupplierUC)
	suppliers.Post("/", catalogWrite, supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", catalogWrite, supplierHandler.Update)

	// Stock
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Queries)
	inv.Get("/products/:id", inventoryHandler.ProductStock)
	inv.Get("/sku/:sku", inventoryHandler.SKUStock)
	inv.Get("/low-stock", inventoryHandler.LowStock)

	// Transactions, pagos y facturas
	txns := protected.Group("/transactions")
	txnHandler := NewTransactionHandler(deps.Transactions, deps.Queries)
	paymentHandler := NewPaymentHandler(deps.Payments, deps.Queries)
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.Queries)
	txns.Post("/", ledgerWrite, txnHandler.Record)
	txns.Post("/preview", txnHandler.Preview)
	txns.Get("/", txnHandler.List)
	txns.Get("/:ref", txnHandler.GetByRef)
	txns.Patch("/:ref", ledgerWrite, txnHandler.Update)
	txns.Get("/:ref/payments", paymentHandler.List)
	txns.Post("/:ref/payments", salesWrite, paymentHandler.Record)
	txns.Post("/:ref/invoice", salesWrite, invoiceHandler.Generate)

	invoices := protected.Group("/invoices")
	invoices.Get("/number/:number", invoiceHandler.GetByNumber)
	invoices.Get("/:id", invoiceHandler.GetByID)
}
