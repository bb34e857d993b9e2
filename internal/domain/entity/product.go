package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa una fila de producto en una bodega.
// El SKU es único por bodega: el mismo SKU puede existir en varias bodegas como filas distintas.
// Quantity y WarehouseID solo se modifican a través del libro de stock.
type Product struct {
	ID             string
	Name           string
	SKU            string
	CategoryID     string // vacío = sin categoría
	SupplierID     string // vacío = sin proveedor
	Description    string
	UnitMeasure    string
	Quantity       decimal.Decimal // 3 decimales, nunca negativo
	ReorderLevel   decimal.Decimal
	WarehouseID    string // vacío = sin bodega asignada
	BuyingPrice    decimal.Decimal
	SellingPrice   decimal.Decimal
	ShipmentNumber string
	ExpiryDate     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLowStock indica si la cantidad está en o por debajo del punto de reorden.
func (p *Product) IsLowStock() bool {
	return p.Quantity.LessThanOrEqual(p.ReorderLevel)
}

// CloneFor copia los campos descriptivos de la fila a otra bodega, con cantidad cero.
func (p *Product) CloneFor(id, warehouseID string, now time.Time) *Product {
	clone := *p
	clone.ID = id
	clone.WarehouseID = warehouseID
	clone.Quantity = decimal.Zero
	if p.ExpiryDate != nil {
		exp := *p.ExpiryDate
		clone.ExpiryDate = &exp
	}
	clone.CreatedAt = now
	clone.UpdatedAt = now
	return &clone
}
