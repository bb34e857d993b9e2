package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	WarehouseID string
	SKU         string
	LowStock    bool // solo filas con quantity <= reorder_level
	Limit       int
	Offset      int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKUAndWarehouse devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKUAndWarehouse(ctx context.Context, sku, warehouseID string) (*entity.Product, error)
	ListBySKU(ctx context.Context, sku string) ([]*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Update modifica solo campos descriptivos; nunca quantity ni warehouse_id.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock escribe cantidad y bodega si la cantidad actual sigue siendo expected;
	// si otra escritura ganó devuelve domain.ErrConflict.
	UpdateStock(ctx context.Context, id string, expected, quantity decimal.Decimal, warehouseID string) error
	CountByWarehouse(ctx context.Context, warehouseID string) (int, error)
}
