package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Config parámetros de negocio del libro.
type Config struct {
	Location       *time.Location // día calendario para la numeración de transacciones
	InvoiceDueDays int            // vencimiento por defecto de facturas
	LockTTL        time.Duration
}

// Deps dependencias compartidas por los casos de uso del libro.
// Reader son repositorios fuera de transacción (lecturas); Sequences y Locker son opcionales.
type Deps struct {
	Tx        TxRunner
	Reader    TxRepos
	Sequences SequenceAllocator
	Locker    Locker
	Log       *logger.Logger
	Config    Config
	Clock     func() time.Time
	NewID     func() string
}

func (d *Deps) normalize() {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Config.Location == nil {
		d.Config.Location = time.UTC
	}
	if d.Config.InvoiceDueDays <= 0 {
		d.Config.InvoiceDueDays = 30
	}
	if d.Config.LockTTL <= 0 {
		d.Config.LockTTL = 10 * time.Second
	}
}

// next asigna el siguiente valor de la secuencia key.
func (d *Deps) next(ctx context.Context, repos TxRepos, key string, seed repository.SeedFunc) (int64, error) {
	if d.Sequences != nil {
		return d.Sequences.Next(ctx, key, seed)
	}
	return repos.Sequences.Next(ctx, key, seed)
}

// dayBounds inicio y fin (inclusive) del día calendario de t en loc.
func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// transactionCode asigna PREFIX-YYMMDD-NNNN para el tipo y la fecha dados.
func (d *Deps) transactionCode(ctx context.Context, repos TxRepos, txType entity.TransactionType, date time.Time) (string, error) {
	day := date.In(d.Config.Location).Format("060102")
	start, end := dayBounds(date, d.Config.Location)
	key := fmt.Sprintf("txn:%s:%s", txType.Prefix(), day)
	n, err := d.next(ctx, repos, key, func(ctx context.Context) (int64, error) {
		return repos.Transactions.CountByTypeBetween(ctx, txType, start, end)
	})
	if err != nil {
		return "", fmt.Errorf("asignar transaction_id: %w", err)
	}
	return fmt.Sprintf("%s-%s-%04d", txType.Prefix(), day, n), nil
}

// invoiceNumber siguiente número global de factura, 6 dígitos.
func (d *Deps) invoiceNumber(ctx context.Context, repos TxRepos) (string, error) {
	n, err := d.next(ctx, repos, "invoice", repos.Invoices.MaxNumericNumber)
	if err != nil {
		return "", fmt.Errorf("asignar número de factura: %w", err)
	}
	return fmt.Sprintf("%06d", n), nil
}

// findTransaction acepta el UUID o el código legible.
func findTransaction(ctx context.Context, repo repository.StockTransactionRepository, ref string, forUpdate bool) (*entity.StockTransaction, error) {
	if ref == "" {
		return nil, domain.Invalid("transaction_id", "requerido")
	}
	var (
		txn *entity.StockTransaction
		err error
	)
	if _, perr := uuid.Parse(ref); perr == nil {
		if forUpdate {
			txn, err = repo.GetForUpdate(ctx, ref)
		} else {
			txn, err = repo.GetByID(ctx, ref)
		}
	} else {
		txn, err = repo.GetByCode(ctx, ref)
		if err == nil && txn != nil && forUpdate {
			txn, err = repo.GetForUpdate(ctx, txn.ID)
		}
	}
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, domain.NotFound("transacción", ref)
	}
	return txn, nil
}
