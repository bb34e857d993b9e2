package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas salvo decimal).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransfer   = errors.New("traslado inválido")
	ErrOverpayment       = errors.New("el pago excede el saldo pendiente")
)

// ValidationError entrada mal formada o regla de negocio violada en un campo concreto.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientStockError un decremento dejaría la cantidad en negativo.
type InsufficientStockError struct {
	ProductID string
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %s, solicitado %s",
		e.ProductID, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InvalidTransferError validación fallida de un traslado entre bodegas.
// Si Insufficient es true también coincide con ErrInsufficientStock.
type InvalidTransferError struct {
	Reason       string
	Insufficient bool
}

func (e *InvalidTransferError) Error() string {
	return "traslado inválido: " + e.Reason
}

func (e *InvalidTransferError) Is(target error) bool {
	if target == ErrInvalidTransfer {
		return true
	}
	return e.Insufficient && target == ErrInsufficientStock
}

// OverpaymentError el monto supera lo adeudado por la transacción.
type OverpaymentError struct {
	Amount decimal.Decimal
	Due    decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("el pago %s excede el saldo pendiente %s", e.Amount.StringFixed(2), e.Due.StringFixed(2))
}

func (e *OverpaymentError) Is(target error) bool { return target == ErrOverpayment }

// NotFoundError entidad referenciada inexistente.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound construye un NotFoundError.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}
