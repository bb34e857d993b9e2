package entity

import "time"

// Category agrupa productos (p. ej. bebidas, limpieza).
type Category struct {
	ID        string
	Name      string
	Icon      string // clase de ícono para la UI
	CreatedAt time.Time
}
