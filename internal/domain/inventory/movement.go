package inventory

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/money"
	"github.com/shopspring/decimal"
)

// MovementInput estado leído (y bloqueado) antes de planificar un movimiento.
// Destination es la fila existente del mismo SKU en la bodega destino (nil si no existe).
type MovementInput struct {
	Type                   entity.TransactionType
	Product                *entity.Product
	Destination            *entity.Product
	Quantity               decimal.Decimal
	SourceWarehouseID      string
	DestinationWarehouseID string
}

// ProductChange cambio sobre una fila de producto existente.
type ProductChange struct {
	ProductID       string
	Before          decimal.Decimal
	After           decimal.Decimal
	WarehouseBefore string
	WarehouseAfter  string
}

// MovementPlan efectos del movimiento sobre el libro, calculados sin escribir nada.
type MovementPlan struct {
	Type                   entity.TransactionType
	SourceWarehouseID      string
	DestinationWarehouseID string
	Changes                []ProductChange
	NewProduct             *entity.Product // fila destino a crear (traslados), ya con la cantidad trasladada
}

// DestinationProductID fila que recibe el stock en un traslado.
func (p *MovementPlan) DestinationProductID() string {
	if p.NewProduct != nil {
		return p.NewProduct.ID
	}
	if p.Type == entity.TransactionTransfer && len(p.Changes) == 2 {
		return p.Changes[1].ProductID
	}
	return ""
}

// PlanMovement valida el movimiento completo y devuelve sus efectos; no modifica los productos recibidos.
// newID se usa solo si hay que crear la fila destino de un traslado.
func PlanMovement(in MovementInput, newID func() string, now time.Time) (*MovementPlan, error) {
	if in.Product == nil {
		return nil, domain.ErrNotFound
	}
	qty := money.Qty(in.Quantity)
	p := in.Product

	switch in.Type {
	case entity.TransactionIn, entity.TransactionReturn:
		if !qty.IsPositive() {
			return nil, domain.Invalid("quantity", "debe ser mayor a cero")
		}
		dst := in.DestinationWarehouseID
		if dst == "" {
			dst = p.WarehouseID
		}
		if dst == "" {
			return nil, domain.Invalid("destination_warehouse_id", "bodega requerida para la entrada")
		}
		if dst != p.WarehouseID && in.Destination != nil && in.Destination.ID != p.ID {
			return nil, domain.Invalid("destination_warehouse_id", "el SKU ya existe en la bodega destino; use un traslado")
		}
		return &MovementPlan{
			Type:                   in.Type,
			DestinationWarehouseID: dst,
			Changes: []ProductChange{{
				ProductID:       p.ID,
				Before:          p.Quantity,
				After:           p.Quantity.Add(qty),
				WarehouseBefore: p.WarehouseID,
				WarehouseAfter:  dst,
			}},
		}, nil

	case entity.TransactionOut, entity.TransactionWastage:
		if !qty.IsPositive() {
			return nil, domain.Invalid("quantity", "debe ser mayor a cero")
		}
		src := in.SourceWarehouseID
		if src == "" {
			src = p.WarehouseID
		}
		if src != p.WarehouseID {
			return nil, domain.Invalid("source_warehouse_id", "el producto no está en la bodega origen")
		}
		if p.Quantity.LessThan(qty) {
			return nil, &domain.InsufficientStockError{ProductID: p.ID, Available: p.Quantity, Requested: qty}
		}
		return &MovementPlan{
			Type:              in.Type,
			SourceWarehouseID: src,
			Changes: []ProductChange{{
				ProductID:       p.ID,
				Before:          p.Quantity,
				After:           p.Quantity.Sub(qty),
				WarehouseBefore: p.WarehouseID,
				WarehouseAfter:  p.WarehouseID,
			}},
		}, nil

	case entity.TransactionTransfer:
		return planTransfer(in, qty, newID, now)
	}
	return nil, domain.Invalid("transaction_type", "tipo de transacción desconocido")
}

// planTransfer valida en orden: origen, destino, origen != destino, producto en origen, stock suficiente, cantidad > 0.
func planTransfer(in MovementInput, qty decimal.Decimal, newID func() string, now time.Time) (*MovementPlan, error) {
	p := in.Product
	src, dst := in.SourceWarehouseID, in.DestinationWarehouseID
	switch {
	case src == "":
		return nil, &domain.InvalidTransferError{Reason: "bodega origen requerida"}
	case dst == "":
		return nil, &domain.InvalidTransferError{Reason: "bodega destino requerida"}
	case src == dst:
		return nil, &domain.InvalidTransferError{Reason: "origen y destino deben ser distintos"}
	case p.WarehouseID != src:
		return nil, &domain.InvalidTransferError{Reason: "el producto no está en la bodega origen"}
	case p.Quantity.LessThan(qty):
		return nil, &domain.InvalidTransferError{Reason: "stock insuficiente en la bodega origen", Insufficient: true}
	case !qty.IsPositive():
		return nil, &domain.InvalidTransferError{Reason: "la cantidad debe ser mayor a cero"}
	}

	plan := &MovementPlan{
		Type:                   entity.TransactionTransfer,
		SourceWarehouseID:      src,
		DestinationWarehouseID: dst,
		Changes: []ProductChange{{
			ProductID:       p.ID,
			Before:          p.Quantity,
			After:           p.Quantity.Sub(qty),
			WarehouseBefore: src,
			WarehouseAfter:  src,
		}},
	}
	if d := in.Destination; d != nil {
		if d.SKU != p.SKU || d.WarehouseID != dst {
			return nil, &domain.InvalidTransferError{Reason: "fila destino no corresponde al SKU/bodega"}
		}
		plan.Changes = append(plan.Changes, ProductChange{
			ProductID:       d.ID,
			Before:          d.Quantity,
			After:           d.Quantity.Add(qty),
			WarehouseBefore: dst,
			WarehouseAfter:  dst,
		})
		return plan, nil
	}
	created := p.CloneFor(newID(), dst, now)
	created.Quantity = qty
	plan.NewProduct = created
	return plan, nil
}
