package entity

import "time"

// Warehouse representa una bodega donde residen filas de producto.
// No se puede eliminar mientras tenga productos asignados.
type Warehouse struct {
	ID        string
	Name      string
	Location  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
