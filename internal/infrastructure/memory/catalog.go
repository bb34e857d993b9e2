package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
	_ repository.ClientRepository    = (*ClientRepo)(nil)
	_ repository.SupplierRepository  = (*SupplierRepo)(nil)
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
)

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct {
	v *view
}

func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		c := *w
		st.warehouses[w.ID] = &c
		return nil
	})
}

func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.v.read(func(st *state) {
		if w, ok := st.warehouses[id]; ok {
			c := *w
			out = &c
		}
	})
	return out, nil
}

func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; !ok {
			return domain.NotFound("bodega", w.ID)
		}
		c := *w
		st.warehouses[w.ID] = &c
		return nil
	})
}

func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	list := []*entity.Warehouse{}
	r.v.read(func(st *state) {
		for _, w := range st.warehouses {
			c := *w
			list = append(list, &c)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

// Delete rechaza con ErrConflict si algún producto referencia la bodega.
func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(st *state) error {
		for _, p := range st.products {
			if p.WarehouseID == id {
				return domain.ErrConflict
			}
		}
		delete(st.warehouses, id)
		return nil
	})
}

// ClientRepo clientes en memoria.
type ClientRepo struct {
	v *view
}

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.clients[c.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *c
		st.clients[c.ID] = &cp
		return nil
	})
}

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	r.v.read(func(st *state) {
		if c, ok := st.clients[id]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.clients[c.ID]; !ok {
			return domain.NotFound("cliente", c.ID)
		}
		cp := *c
		st.clients[c.ID] = &cp
		return nil
	})
}

func (r *ClientRepo) List(_ context.Context, limit, offset int) ([]*entity.Client, error) {
	list := []*entity.Client{}
	r.v.read(func(st *state) {
		for _, c := range st.clients {
			cp := *c
			list = append(list, &cp)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct {
	v *view
}

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *s
		st.suppliers[s.ID] = &cp
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.v.read(func(st *state) {
		if s, ok := st.suppliers[id]; ok {
			cp := *s
			out = &cp
		}
	})
	return out, nil
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; !ok {
			return domain.NotFound("proveedor", s.ID)
		}
		cp := *s
		st.suppliers[s.ID] = &cp
		return nil
	})
}

func (r *SupplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	list := []*entity.Supplier{}
	r.v.read(func(st *state) {
		for _, s := range st.suppliers {
			cp := *s
			list = append(list, &cp)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}

// CategoryRepo categorías en memoria.
type CategoryRepo struct {
	v *view
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.v.write(func(st *state) error {
		for _, existing := range st.categories {
			if existing.ID == c.ID || existing.Name == c.Name {
				return domain.ErrDuplicate
			}
		}
		cp := *c
		st.categories[c.ID] = &cp
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	r.v.read(func(st *state) {
		if c, ok := st.categories[id]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}

func (r *CategoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	list := []*entity.Category{}
	r.v.read(func(st *state) {
		for _, c := range st.categories {
			cp := *c
			list = append(list, &cp)
		}
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), nil
}
