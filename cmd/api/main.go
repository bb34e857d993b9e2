package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// sequenceTTL vida de una clave de secuencia sin uso en Redis; las claves diarias caducan solas.
const sequenceTTL = 48 * time.Hour

// storage puertos de persistencia según LEDGER_STORAGE.
type storage struct {
	tx         ledger.TxRunner
	reader     ledger.TxRepos
	categories repository.CategoryRepository
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage {
	if cfg.Ledger.Storage == "memory" {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return storage{tx: store, reader: store.Repos(), categories: store.Categories(), close: func() {}}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}
	return storage{
		tx:         postgres.NewTxRunner(pool),
		reader:     postgres.Repos(pool),
		categories: postgres.NewCategoryRepository(pool),
		close:      pool.Close,
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Ledger.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store := openStorage(ctx, cfg, log.Component("storage"))
	defer store.close()

	loc, err := cfg.Ledger.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria del libro")
	}
	deps := ledger.Deps{
		Tx:     store.tx,
		Reader: store.reader,
		Log:    log.Component("ledger"),
		Config: ledger.Config{
			Location:       loc,
			InvoiceDueDays: cfg.Ledger.InvoiceDueDays,
			LockTTL:        cfg.Ledger.LockTTL(),
		},
	}

	// Redis opcional: secuencias con INCR y lock de generación de facturas
	if cfg.Redis.Enabled() {
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer client.Close()
		deps.Sequences = redisstore.NewSequenceAllocator(client, sequenceTTL)
		deps.Locker = redisstore.NewLocker(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("secuencias y locks en Redis")
	}

	invoices := ledger.NewInvoiceGenerator(deps)
	r := store.reader

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC:  usecase.NewWarehouseUseCase(r.Warehouses, r.Products),
		ProductUC:    usecase.NewProductUseCase(r.Products, r.Warehouses, r.Suppliers, store.categories),
		ClientUC:     usecase.NewClientUseCase(r.Clients),
		SupplierUC:   usecase.NewSupplierUseCase(r.Suppliers),
		CategoryUC:   usecase.NewCategoryUseCase(store.categories),
		Transactions: ledger.NewRecordTransactionUseCase(deps, invoices),
		Payments:     ledger.NewRecordPaymentUseCase(deps),
		Invoices:     invoices,
		Queries:      ledger.NewQueryUseCase(deps),
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
