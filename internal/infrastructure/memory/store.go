// Package memory implementa los puertos de persistencia en memoria (LEDGER_STORAGE=memory y tests).
// Run serializa las transacciones con un mutex del store y trabaja sobre una copia del estado
// que solo se publica si fn termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ ledger.TxRunner = (*Store)(nil)

type state struct {
	products     map[string]*entity.Product
	warehouses   map[string]*entity.Warehouse
	clients      map[string]*entity.Client
	suppliers    map[string]*entity.Supplier
	categories   map[string]*entity.Category
	transactions map[string]*entity.StockTransaction
	payments     map[string][]*entity.Payment // por StockTransaction.ID
	invoices     map[string]*entity.Invoice
	items        map[string][]*entity.InvoiceItem // por Invoice.ID
	sequences    map[string]int64
}

func newState() *state {
	return &state{
		products:     map[string]*entity.Product{},
		warehouses:   map[string]*entity.Warehouse{},
		clients:      map[string]*entity.Client{},
		suppliers:    map[string]*entity.Supplier{},
		categories:   map[string]*entity.Category{},
		transactions: map[string]*entity.StockTransaction{},
		payments:     map[string][]*entity.Payment{},
		invoices:     map[string]*entity.Invoice{},
		items:        map[string][]*entity.InvoiceItem{},
		sequences:    map[string]int64{},
	}
}

// clone copia los mapas; las entidades se reemplazan completas al escribir, nunca se mutan en sitio.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = append([]*entity.Payment(nil), v...)
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]*entity.InvoiceItem(nil), v...)
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store almacenamiento en memoria seguro para uso concurrente.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// view acceso al estado: dentro de Run (tx != nil) sin locks; fuera, con el RWMutex del store.
type view struct {
	store *Store
	tx    *state
}

func (v *view) read(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	fn(v.store.data)
}

func (v *view) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	next := v.store.data.clone()
	if err := fn(next); err != nil {
		return err
	}
	v.store.data = next
	return nil
}

func reposFor(v *view) ledger.TxRepos {
	return ledger.TxRepos{
		Products:     &ProductRepo{v: v},
		Warehouses:   &WarehouseRepo{v: v},
		Clients:      &ClientRepo{v: v},
		Suppliers:    &SupplierRepo{v: v},
		Transactions: &TransactionRepo{v: v},
		Payments:     &PaymentRepo{v: v},
		Invoices:     &InvoiceRepo{v: v},
		Sequences:    &SequenceRepo{v: v},
	}
}

// Repos repositorios fuera de transacción (cada operación es atómica por sí sola).
func (s *Store) Repos() ledger.TxRepos {
	return reposFor(&view{store: s})
}

// Categories repositorio de categorías fuera de transacción.
func (s *Store) Categories() repository.CategoryRepository {
	return &CategoryRepo{v: &view{store: s}}
}

// Run ejecuta fn con repos sobre una copia del estado; la copia se publica solo si fn retorna nil.
func (s *Store) Run(ctx context.Context, fn func(repos ledger.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.data.clone()
	if err := fn(reposFor(&view{store: s, tx: next})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.data = next
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
