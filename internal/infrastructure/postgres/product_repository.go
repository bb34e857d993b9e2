package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, sku, category_id, supplier_id, description, unit_measure, quantity, reorder_level,
	warehouse_id, buying_price, selling_price, shipment_number, expiry_date, created_at, updated_at`

func scanProduct(row pgxScanner) (*entity.Product, error) {
	var (
		p                            entity.Product
		categoryID, supplierID, whID *string
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &categoryID, &supplierID, &p.Description, &p.UnitMeasure,
		&p.Quantity, &p.ReorderLevel, &whID, &p.BuyingPrice, &p.SellingPrice,
		&p.ShipmentNumber, &p.ExpiryDate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.CategoryID = deref(categoryID)
	p.SupplierID = deref(supplierID)
	p.WarehouseID = deref(whID)
	return &p, nil
}

func (r *ProductRepo) one(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepo) many(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto con su cantidad inicial (0 salvo filas creadas por traslados).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.SKU, nullIfEmpty(p.CategoryID), nullIfEmpty(p.SupplierID), p.Description, p.UnitMeasure,
		p.Quantity, p.ReorderLevel, nullIfEmpty(p.WarehouseID), p.BuyingPrice, p.SellingPrice,
		p.ShipmentNumber, p.ExpiryDate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.Invalid("", "categoría, proveedor o bodega inexistente")
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.one(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	return r.one(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) GetBySKUAndWarehouse(ctx context.Context, sku, warehouseID string) (*entity.Product, error) {
	if !isUUID(warehouseID) {
		return nil, nil
	}
	return r.one(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1 AND warehouse_id = $2`, sku, warehouseID)
}

func (r *ProductRepo) ListBySKU(ctx context.Context, sku string) ([]*entity.Product, error) {
	return r.many(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1 ORDER BY warehouse_id, id`, sku)
}

// List filtra por bodega, SKU y stock bajo; paginado por created_at DESC.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	if f.WarehouseID != "" && !isUUID(f.WarehouseID) {
		return []*entity.Product{}, nil
	}
	where := newWhere()
	if f.WarehouseID != "" {
		where.add("warehouse_id = ?", f.WarehouseID)
	}
	if f.SKU != "" {
		where.add("sku = ?", f.SKU)
	}
	if f.LowStock {
		where.add("quantity <= reorder_level")
	}
	query := `SELECT ` + productColumns + ` FROM products` + where.sql() + ` ORDER BY created_at DESC, id` + where.page(f.Limit, f.Offset)
	return r.many(ctx, query, where.args...)
}

// Update actualiza los campos descriptivos. Quantity y warehouse_id solo cambian vía UpdateStock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, sku = $3, category_id = $4, supplier_id = $5, description = $6,
			unit_measure = $7, reorder_level = $8, buying_price = $9, selling_price = $10,
			shipment_number = $11, expiry_date = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.SKU, nullIfEmpty(p.CategoryID), nullIfEmpty(p.SupplierID), p.Description,
		p.UnitMeasure, p.ReorderLevel, p.BuyingPrice, p.SellingPrice,
		p.ShipmentNumber, p.ExpiryDate, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.Invalid("", "categoría o proveedor inexistente")
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("producto", p.ID)
	}
	return nil
}

// UpdateStock escribe cantidad y bodega solo si la cantidad sigue siendo expected (CAS).
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, expected, quantity decimal.Decimal, warehouseID string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET quantity = $3, warehouse_id = $4, updated_at = now() WHERE id = $1 AND quantity = $2`,
		id, expected, quantity, nullIfEmpty(warehouseID),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isCheckViolation(err):
			return &domain.InsufficientStockError{ProductID: id, Available: expected, Requested: expected.Sub(quantity)}
		}
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: la cantidad de %s cambió", domain.ErrConflict, id)
	}
	return nil
}

func (r *ProductRepo) CountByWarehouse(ctx context.Context, warehouseID string) (int, error) {
	if !isUUID(warehouseID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE warehouse_id = $1`, warehouseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
