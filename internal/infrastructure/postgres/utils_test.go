package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWhere_Placeholders(t *testing.T) {
	w := newWhere()
	w.add("transaction_type = ?", "in")
	w.add("(product_id = ? OR destination_product_id = ?)", "p", "p")
	w.add("quantity <= reorder_level")
	assert.Equal(t, " WHERE transaction_type = $1 AND (product_id = $2 OR destination_product_id = $3) AND quantity <= reorder_level", w.sql())
	assert.Equal(t, " LIMIT $4 OFFSET $5", w.page(10, 20))
	assert.Len(t, w.args, 5)
}

func TestWhere_Vacio(t *testing.T) {
	w := newWhere()
	assert.Equal(t, "", w.sql())
	assert.Equal(t, "", w.page(0, 0))
	assert.Empty(t, w.args)
}

func TestCodigosDeError(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}
	check := &pgconn.PgError{Code: "23514"}

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.True(t, isCheckViolation(check))
	assert.False(t, isCheckViolation(errors.New("otro")))
	assert.False(t, isUniqueViolation(nil))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID("7f1b3c4e-2f44-4a57-9f53-0e7c1e0e9b11"))
	assert.False(t, isUUID("OUT-260314-0001"))
	assert.False(t, isUUID(""))
}

func TestSchema_TablasDelLibro(t *testing.T) {
	for _, table := range []string{"products", "warehouses", "stock_transactions", "payments", "invoices", "invoice_items", "ledger_sequences"} {
		assert.True(t, strings.Contains(Schema(), "CREATE TABLE IF NOT EXISTS "+table+" ("), table)
	}
	assert.Contains(t, Schema(), "UNIQUE (sku, warehouse_id)")
	assert.Contains(t, Schema(), "CHECK (quantity >= 0)")
}
