package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
)

// InvoiceHandler generación y consulta de facturas (protegido).
type InvoiceHandler struct {
	generator *ledger.InvoiceGenerator
	queries   *ledger.QueryUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(generator *ledger.InvoiceGenerator, queries *ledger.QueryUseCase) *InvoiceHandler {
	return &InvoiceHandler{generator: generator, queries: queries}
}

// Generate godoc
// @Summary      Generar factura de una venta
// @Description  Idempotente: si la transacción ya tiene factura se devuelve la existente con created=false.
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        ref  path  string  true  "UUID o código de la transacción"
// @Success      201  {object}  dto.GenerateInvoiceResponse
// @Success      200  {object}  dto.GenerateInvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transactions/{ref}/invoice [post]
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	out, err := h.generator.GenerateFor(c.Context(), c.Params("ref"))
	if err != nil {
		return writeError(c, err)
	}
	code := fiber.StatusOK
	if out.Created {
		code = fiber.StatusCreated
	}
	return c.Status(code).JSON(dto.GenerateInvoiceResponse{Invoice: toInvoiceResponse(out.Invoice), Created: out.Created})
}

// GetByID godoc
// @Summary      Obtener factura por ID
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.queries.Invoice(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toInvoiceResponse(inv))
}

// GetByNumber godoc
// @Summary      Obtener factura por número
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número (000001)"
// @Success      200     {object}  dto.InvoiceResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/invoices/number/{number} [get]
func (h *InvoiceHandler) GetByNumber(c *fiber.Ctx) error {
	inv, err := h.queries.InvoiceByNumber(c.Context(), c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toInvoiceResponse(inv))
}
