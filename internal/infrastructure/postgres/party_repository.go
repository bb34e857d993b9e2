package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ClientRepository   = (*ClientRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// party columnas comunes de clients y suppliers.
type party struct {
	ID, Name, ContactPerson, Email, Phone, Address, Notes string
	CreatedAt, UpdatedAt                                  time.Time
}

const partyColumns = `id, name, contact_person, email, phone, address, notes, created_at, updated_at`

// partyTable acceso compartido a una tabla de contrapartes.
type partyTable struct {
	q      Querier
	table  string
	entity string
}

func (t partyTable) create(ctx context.Context, p party) error {
	query := `INSERT INTO ` + t.table + ` (` + partyColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := t.q.Exec(ctx, query, p.ID, p.Name, p.ContactPerson, p.Email, p.Phone, p.Address, p.Notes, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", t.table, err)
	}
	return nil
}

func (t partyTable) get(ctx context.Context, id string) (*party, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var p party
	err := t.q.QueryRow(ctx, `SELECT `+partyColumns+` FROM `+t.table+` WHERE id = $1`, id).Scan(
		&p.ID, &p.Name, &p.ContactPerson, &p.Email, &p.Phone, &p.Address, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", t.table, err)
	}
	return &p, nil
}

func (t partyTable) update(ctx context.Context, p party) error {
	query := `UPDATE ` + t.table + ` SET name = $2, contact_person = $3, email = $4, phone = $5,
		address = $6, notes = $7, updated_at = $8 WHERE id = $1`
	cmd, err := t.q.Exec(ctx, query, p.ID, p.Name, p.ContactPerson, p.Email, p.Phone, p.Address, p.Notes, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.table, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound(t.entity, p.ID)
	}
	return nil
}

func (t partyTable) list(ctx context.Context, limit, offset int) ([]party, error) {
	w := newWhere()
	rows, err := t.q.Query(ctx, `SELECT `+partyColumns+` FROM `+t.table+` ORDER BY name, id`+w.page(limit, offset), w.args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.table, err)
	}
	defer rows.Close()
	var list []party
	for rows.Next() {
		var p party
		if err := rows.Scan(&p.ID, &p.Name, &p.ContactPerson, &p.Email, &p.Phone, &p.Address, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// ClientRepo clientes sobre PostgreSQL.
type ClientRepo struct {
	t partyTable
}

// NewClientRepository pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{t: partyTable{q: q, table: "clients", entity: "cliente"}}
}

func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	return r.t.create(ctx, party(*c))
}

func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	p, err := r.t.get(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	c := entity.Client(*p)
	return &c, nil
}

func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	return r.t.update(ctx, party(*c))
}

func (r *ClientRepo) List(ctx context.Context, limit, offset int) ([]*entity.Client, error) {
	rows, err := r.t.list(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Client, 0, len(rows))
	for _, p := range rows {
		c := entity.Client(p)
		list = append(list, &c)
	}
	return list, nil
}

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	t partyTable
}

// NewSupplierRepository pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{t: partyTable{q: q, table: "suppliers", entity: "proveedor"}}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	return r.t.create(ctx, party(*s))
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	p, err := r.t.get(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	s := entity.Supplier(*p)
	return &s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	return r.t.update(ctx, party(*s))
}

func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	rows, err := r.t.list(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Supplier, 0, len(rows))
	for _, p := range rows {
		s := entity.Supplier(p)
		list = append(list, &s)
	}
	return list, nil
}
