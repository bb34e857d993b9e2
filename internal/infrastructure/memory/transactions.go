package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.StockTransactionRepository = (*TransactionRepo)(nil)
	_ repository.PaymentRepository          = (*PaymentRepo)(nil)
)

// TransactionRepo libro de transacciones en memoria.
type TransactionRepo struct {
	v *view
}

func copyTxn(t *entity.StockTransaction) *entity.StockTransaction {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (r *TransactionRepo) Create(_ context.Context, t *entity.StockTransaction) error {
	return r.v.write(func(st *state) error {
		for _, existing := range st.transactions {
			if existing.ID == t.ID || existing.TransactionID == t.TransactionID {
				return domain.ErrDuplicate
			}
		}
		st.transactions[t.ID] = copyTxn(t)
		return nil
	})
}

func (r *TransactionRepo) GetByID(_ context.Context, id string) (*entity.StockTransaction, error) {
	var out *entity.StockTransaction
	r.v.read(func(st *state) { out = copyTxn(st.transactions[id]) })
	return out, nil
}

func (r *TransactionRepo) GetByCode(_ context.Context, code string) (*entity.StockTransaction, error) {
	var out *entity.StockTransaction
	r.v.read(func(st *state) {
		for _, t := range st.transactions {
			if t.TransactionID == code {
				out = copyTxn(t)
				return
			}
		}
	})
	return out, nil
}

func (r *TransactionRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockTransaction, error) {
	return r.GetByID(ctx, id)
}

func (r *TransactionRepo) CountByTypeBetween(_ context.Context, txType entity.TransactionType, start, end time.Time) (int64, error) {
	var n int64
	r.v.read(func(st *state) {
		for _, t := range st.transactions {
			if t.Type == txType && !t.TransactionDate.Before(start) && !t.TransactionDate.After(end) {
				n++
			}
		}
	})
	return n, nil
}

func (r *TransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*entity.StockTransaction, error) {
	list := []*entity.StockTransaction{}
	r.v.read(func(st *state) {
		for _, t := range st.transactions {
			if f.Type != "" && t.Type != f.Type {
				continue
			}
			if f.ProductID != "" && t.ProductID != f.ProductID && t.DestinationProductID != f.ProductID {
				continue
			}
			if f.From != nil && t.TransactionDate.Before(*f.From) {
				continue
			}
			if f.To != nil && t.TransactionDate.After(*f.To) {
				continue
			}
			list = append(list, copyTxn(t))
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].TransactionDate.Equal(list[j].TransactionDate) {
			return list[i].TransactionDate.After(list[j].TransactionDate)
		}
		return list[i].TransactionID > list[j].TransactionID
	})
	return page(list, f.Limit, f.Offset), nil
}

func (r *TransactionRepo) UpdatePaymentFields(_ context.Context, id string, status entity.PaymentStatus, paid, due decimal.Decimal) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.transactions[id]
		if !ok {
			return domain.NotFound("transacción", id)
		}
		next := copyTxn(cur)
		next.PaymentStatus = status
		next.AmountPaid = paid
		next.AmountDue = due
		st.transactions[id] = next
		return nil
	})
}

func (r *TransactionRepo) UpdateDetails(_ context.Context, id, reference, notes string, dueDate *time.Time) error {
	return r.v.write(func(st *state) error {
		cur, ok := st.transactions[id]
		if !ok {
			return domain.NotFound("transacción", id)
		}
		next := copyTxn(cur)
		next.ReferenceNumber = reference
		next.Notes = notes
		next.PaymentDueDate = dueDate
		st.transactions[id] = next
		return nil
	})
}

// PaymentRepo pagos en memoria (append-only).
type PaymentRepo struct {
	v *view
}

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.transactions[p.TransactionID]; !ok {
			return domain.NotFound("transacción", p.TransactionID)
		}
		c := *p
		st.payments[p.TransactionID] = append(st.payments[p.TransactionID], &c)
		return nil
	})
}

func (r *PaymentRepo) ListByTransaction(_ context.Context, transactionID string) ([]*entity.Payment, error) {
	list := []*entity.Payment{}
	r.v.read(func(st *state) {
		for _, p := range st.payments[transactionID] {
			c := *p
			list = append(list, &c)
		}
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].PaymentDate.Before(list[j].PaymentDate) })
	return list, nil
}

func (r *PaymentRepo) SumByTransaction(_ context.Context, transactionID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	r.v.read(func(st *state) {
		for _, p := range st.payments[transactionID] {
			sum = sum.Add(p.Amount)
		}
	})
	return sum, nil
}
