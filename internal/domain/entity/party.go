package entity

import "time"

// Supplier proveedor de mercadería (entradas de stock).
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Client cliente al que se le vende (salidas de stock y facturas).
type Client struct {
	ID            string
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
