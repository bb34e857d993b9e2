package postgres

import (
	"fmt"
	"strings"
)

// where acumula condiciones AND con placeholders numerados ($1, $2...).
type where struct {
	conds []string
	args  []any
}

func newWhere() *where { return &where{} }

// add reemplaza cada ? de cond por el siguiente $n.
func (w *where) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page agrega LIMIT/OFFSET como argumentos; limit <= 0 no limita.
func (w *where) page(limit, offset int) string {
	out := ""
	if limit > 0 {
		w.args = append(w.args, limit)
		out += fmt.Sprintf(" LIMIT $%d", len(w.args))
	}
	if offset > 0 {
		w.args = append(w.args, offset)
		out += fmt.Sprintf(" OFFSET $%d", len(w.args))
	}
	return out
}
