package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. Índice único lógico: (sku, warehouse_id).
type ProductRepo struct {
	v *view
}

func copyProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// clashes indica si otra fila ya tiene el mismo SKU en la bodega (filas sin bodega no chocan).
func clashes(st *state, id, sku, warehouseID string) bool {
	if warehouseID == "" {
		return false
	}
	for _, p := range st.products {
		if p.ID != id && p.SKU == sku && p.WarehouseID == warehouseID {
			return true
		}
	}
	return false
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		if clashes(st, product.ID, product.SKU, product.WarehouseID) {
			return domain.ErrDuplicate
		}
		st.products[product.ID] = copyProduct(product)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(st *state) { out = copyProduct(st.products[id]) })
	return out, nil
}

// GetForUpdate el mutex de Run ya serializa las transacciones.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySKUAndWarehouse(_ context.Context, sku, warehouseID string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(st *state) {
		for _, p := range st.products {
			if p.SKU == sku && p.WarehouseID == warehouseID {
				out = copyProduct(p)
				return
			}
		}
	})
	return out, nil
}

func (r *ProductRepo) ListBySKU(_ context.Context, sku string) ([]*entity.Product, error) {
	list := []*entity.Product{}
	r.v.read(func(st *state) {
		for _, p := range st.products {
			if p.SKU == sku {
				list = append(list, copyProduct(p))
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].WarehouseID != list[j].WarehouseID {
			return list[i].WarehouseID < list[j].WarehouseID
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	list := []*entity.Product{}
	r.v.read(func(st *state) {
		for _, p := range st.products {
			if f.WarehouseID != "" && p.WarehouseID != f.WarehouseID {
				continue
			}
			if f.SKU != "" && p.SKU != f.SKU {
				continue
			}
			if f.LowStock && !p.IsLowStock() {
				continue
			}
			list = append(list, copyProduct(p))
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.products[product.ID]
		if !ok {
			return domain.NotFound("producto", product.ID)
		}
		next := copyProduct(product)
		next.Quantity = cur.Quantity
		next.WarehouseID = cur.WarehouseID
		next.CreatedAt = cur.CreatedAt
		if clashes(st, next.ID, next.SKU, next.WarehouseID) {
			return domain.ErrDuplicate
		}
		st.products[product.ID] = next
		return nil
	})
}

func (r *ProductRepo) UpdateStock(_ context.Context, id string, expected, quantity decimal.Decimal, warehouseID string) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.products[id]
		if !ok {
			return domain.NotFound("producto", id)
		}
		if !cur.Quantity.Equal(expected) {
			return domain.ErrConflict
		}
		if quantity.IsNegative() {
			return &domain.InsufficientStockError{ProductID: id, Available: cur.Quantity, Requested: cur.Quantity.Sub(quantity)}
		}
		if warehouseID != cur.WarehouseID && clashes(st, id, cur.SKU, warehouseID) {
			return domain.ErrDuplicate
		}
		next := copyProduct(cur)
		next.Quantity = quantity
		next.WarehouseID = warehouseID
		st.products[id] = next
		return nil
	})
}

func (r *ProductRepo) CountByWarehouse(_ context.Context, warehouseID string) (int, error) {
	n := 0
	r.v.read(func(st *state) {
		for _, p := range st.products {
			if p.WarehouseID == warehouseID {
				n++
			}
		}
	})
	return n, nil
}
