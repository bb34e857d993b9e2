package memory

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository  = (*InvoiceRepo)(nil)
	_ repository.SequenceRepository = (*SequenceRepo)(nil)
)

// InvoiceRepo facturas en memoria. Únicos: invoice_number y stock_transaction_id (si no es vacío).
type InvoiceRepo struct {
	v *view
}

func withItems(st *state, inv *entity.Invoice) *entity.Invoice {
	if inv == nil {
		return nil
	}
	c := *inv
	c.Items = make([]*entity.InvoiceItem, 0, len(st.items[inv.ID]))
	for _, it := range st.items[inv.ID] {
		ic := *it
		c.Items = append(c.Items, &ic)
	}
	return &c
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.v.write(func(st *state) error {
		for _, existing := range st.invoices {
			if existing.ID == inv.ID || existing.InvoiceNumber == inv.InvoiceNumber {
				return domain.ErrDuplicate
			}
			if inv.StockTransactionID != "" && existing.StockTransactionID == inv.StockTransactionID {
				return domain.ErrDuplicate
			}
		}
		c := *inv
		c.Items = nil
		st.invoices[inv.ID] = &c
		return nil
	})
}

func (r *InvoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.invoices[item.InvoiceID]; !ok {
			return domain.NotFound("factura", item.InvoiceID)
		}
		c := *item
		st.items[item.InvoiceID] = append(st.items[item.InvoiceID], &c)
		return nil
	})
}

func (r *InvoiceRepo) find(match func(inv *entity.Invoice) bool) *entity.Invoice {
	var out *entity.Invoice
	r.v.read(func(st *state) {
		for _, inv := range st.invoices {
			if match(inv) {
				out = withItems(st, inv)
				return
			}
		}
	})
	return out
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	return r.find(func(inv *entity.Invoice) bool { return inv.ID == id }), nil
}

func (r *InvoiceRepo) GetByNumber(_ context.Context, number string) (*entity.Invoice, error) {
	return r.find(func(inv *entity.Invoice) bool { return inv.InvoiceNumber == number }), nil
}

func (r *InvoiceRepo) GetByStockTransactionID(_ context.Context, transactionID string) (*entity.Invoice, error) {
	return r.find(func(inv *entity.Invoice) bool {
		return transactionID != "" && inv.StockTransactionID == transactionID
	}), nil
}

func (r *InvoiceRepo) FindByNotesTag(_ context.Context, tag string) (*entity.Invoice, error) {
	return r.find(func(inv *entity.Invoice) bool { return strings.Contains(inv.Notes, tag) }), nil
}

func (r *InvoiceRepo) MaxNumericNumber(_ context.Context) (int64, error) {
	var highest int64
	r.v.read(func(st *state) {
		for _, inv := range st.invoices {
			n, err := strconv.ParseInt(inv.InvoiceNumber, 10, 64)
			if err == nil && n > highest {
				highest = n
			}
		}
	})
	return highest, nil
}

func (r *InvoiceRepo) UpdateStatus(_ context.Context, id, status string, updatedAt time.Time) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.invoices[id]
		if !ok {
			return domain.NotFound("factura", id)
		}
		c := *cur
		c.Status = status
		c.UpdatedAt = updatedAt
		st.invoices[id] = &c
		return nil
	})
}

func (r *InvoiceRepo) UpdateDueDate(_ context.Context, id string, dueDate, updatedAt time.Time) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.invoices[id]
		if !ok {
			return domain.NotFound("factura", id)
		}
		c := *cur
		c.DueDate = dueDate
		c.UpdatedAt = updatedAt
		st.invoices[id] = &c
		return nil
	})
}

// SequenceRepo contadores en memoria; dentro de Run se revierten junto con la transacción.
type SequenceRepo struct {
	v *view
}

func (r *SequenceRepo) Next(ctx context.Context, key string, seed repository.SeedFunc) (int64, error) {
	var (
		current int64
		ok      bool
	)
	r.v.read(func(st *state) { current, ok = st.sequences[key] })
	if !ok {
		s, err := seed(ctx)
		if err != nil {
			return 0, err
		}
		current = s
	}
	var next int64
	err := r.v.write(func(st *state) error {
		if v, exists := st.sequences[key]; exists && v > current {
			current = v
		}
		next = current + 1
		st.sequences[key] = next
		return nil
	})
	return next, err
}
