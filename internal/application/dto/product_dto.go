package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear una fila de producto. La cantidad inicia en 0;
// el stock entra con una transacción de tipo "in".
type CreateProductRequest struct {
	SKU            string          `json:"sku" validate:"required,min=1,max=100"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Description    string          `json:"description" validate:"max=2000"`
	CategoryID     string          `json:"category_id"`
	SupplierID     string          `json:"supplier_id"`
	WarehouseID    string          `json:"warehouse_id"`
	UnitMeasure    string          `json:"unit_measure" validate:"max=20"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
	BuyingPrice    decimal.Decimal `json:"buying_price"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	ShipmentNumber string          `json:"shipment_number" validate:"max=100"`
	ExpiryDate     *time.Time      `json:"expiry_date"`
}

// UpdateProductRequest entrada para actualizar un producto (sin cantidad ni bodega).
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string          `json:"description" validate:"omitempty,max=2000"`
	CategoryID     *string          `json:"category_id"`
	SupplierID     *string          `json:"supplier_id"`
	UnitMeasure    *string          `json:"unit_measure" validate:"omitempty,max=20"`
	ReorderLevel   *decimal.Decimal `json:"reorder_level"`
	BuyingPrice    *decimal.Decimal `json:"buying_price"`
	SellingPrice   *decimal.Decimal `json:"selling_price"`
	ShipmentNumber *string          `json:"shipment_number" validate:"omitempty,max=100"`
	ExpiryDate     *time.Time       `json:"expiry_date"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	CategoryID     string          `json:"category_id,omitempty"`
	SupplierID     string          `json:"supplier_id,omitempty"`
	WarehouseID    string          `json:"warehouse_id,omitempty"`
	UnitMeasure    string          `json:"unit_measure"`
	Quantity       decimal.Decimal `json:"quantity"`
	ReorderLevel   decimal.Decimal `json:"reorder_level"`
	LowStock       bool            `json:"low_stock"`
	BuyingPrice    decimal.Decimal `json:"buying_price"`
	SellingPrice   decimal.Decimal `json:"selling_price"`
	ShipmentNumber string          `json:"shipment_number,omitempty"`
	ExpiryDate     *time.Time      `json:"expiry_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// SKUStockResponse un SKU en todas sus bodegas.
type SKUStockResponse struct {
	SKU   string            `json:"sku"`
	Total decimal.Decimal   `json:"total_quantity"`
	Rows  []ProductResponse `json:"rows"`
}
