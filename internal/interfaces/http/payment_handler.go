package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/shopspring/decimal"
)

// PaymentHandler abonos contra transacciones (protegido).
type PaymentHandler struct {
	uc      *ledger.RecordPaymentUseCase
	queries *ledger.QueryUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *ledger.RecordPaymentUseCase, queries *ledger.QueryUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc, queries: queries}
}

// Record godoc
// @Summary      Registrar pago
// @Description  Recalcula estado, pagado y adeudado desde la suma de pagos. Marca la factura pagada al saldar.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        ref   path  string                     true  "UUID o código de la transacción"
// @Param        body  body  ledger.RecordPaymentInput  true  "Pago"
// @Success      201   {object}  dto.RecordPaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transactions/{ref}/payments [post]
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var in ledger.RecordPaymentInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.TransactionID = c.Params("ref")
	in.CreatedBy = GetUserID(c)
	out, err := h.uc.Record(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RecordPaymentResponse{
		Payment:     toPaymentResponse(out.Payment),
		Transaction: toTransactionResponse(out.Transaction),
	})
}

// List godoc
// @Summary      Pagos de una transacción
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        ref  path  string  true  "UUID o código de la transacción"
// @Success      200  {object}  dto.PaymentListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{ref}/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	list, err := h.queries.Payments(c.Context(), c.Params("ref"))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.PaymentListResponse{Items: make([]dto.PaymentResponse, 0, len(list)), Total: decimal.Zero}
	for _, p := range list {
		out.Items = append(out.Items, toPaymentResponse(p))
		out.Total = out.Total.Add(p.Amount)
	}
	return c.JSON(out)
}
