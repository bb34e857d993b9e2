package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TransactionHandler registro y consulta de transacciones de stock (protegido).
type TransactionHandler struct {
	record  *ledger.RecordTransactionUseCase
	queries *ledger.QueryUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(record *ledger.RecordTransactionUseCase, queries *ledger.QueryUseCase) *TransactionHandler {
	return &TransactionHandler{record: record, queries: queries}
}

// Record godoc
// @Summary      Registrar transacción de stock
// @Description  in, out, wastage, return o transfer. Aplica el movimiento, asigna el código PREFIX-YYMMDD-NNNN y genera la factura de las ventas a cliente.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  ledger.RecordTransactionInput  true  "Transacción"
// @Success      201   {object}  dto.RecordTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Record(c *fiber.Ctx) error {
	var in ledger.RecordTransactionInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.CreatedBy = GetUserID(c)
	out, err := h.record.Record(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecordResponse(out))
}

// Preview godoc
// @Summary      Previsualizar transacción
// @Description  Calcula montos y efectos sobre el stock sin escribir nada.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  ledger.RecordTransactionInput  true  "Transacción"
// @Success      200   {object}  dto.RecordTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions/preview [post]
func (h *TransactionHandler) Preview(c *fiber.Ctx) error {
	var in ledger.RecordTransactionInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.CreatedBy = GetUserID(c)
	out, err := h.record.Preview(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toRecordResponse(out))
}

// GetByRef godoc
// @Summary      Obtener transacción
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        ref  path  string  true  "UUID o código (OUT-260314-0001)"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{ref} [get]
func (h *TransactionHandler) GetByRef(c *fiber.Ctx) error {
	txn, err := h.queries.Transaction(c.Context(), c.Params("ref"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransactionResponse(txn))
}

// List godoc
// @Summary      Historial de transacciones
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "in|out|wastage|return|transfer"
// @Param        product_id  query  string  false  "Fila de producto (origen o destino)"
// @Param        from        query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        to          query  string  false  "YYYY-MM-DD (día completo) o RFC3339"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransactionListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	page := pageOf(c)
	filter := repository.TransactionFilter{
		Type:      entity.TransactionType(c.Query("type")),
		ProductID: c.Query("product_id"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	var err error
	if filter.From, err = queryTime(c, "from", false); err != nil {
		return writeError(c, err)
	}
	if filter.To, err = queryTime(c, "to", true); err != nil {
		return writeError(c, err)
	}
	list, err := h.queries.Transactions(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTransactionResponse(t))
	}
	return c.JSON(dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Update godoc
// @Summary      Editar referencia, notas o vencimiento
// @Description  No modifica montos, cantidades ni stock.
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        ref   path  string                         true  "UUID o código"
// @Param        body  body  ledger.UpdateTransactionInput  true  "Campos editables"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/transactions/{ref} [patch]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	var in ledger.UpdateTransactionInput
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	txn, err := h.record.Update(c.Context(), c.Params("ref"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransactionResponse(txn))
}

func pageOf(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	return page
}

// queryTime acepta fecha (YYYY-MM-DD, UTC) o RFC3339. Con endOfDay, una fecha sola cubre el día completo.
func queryTime(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.Invalid(key, "formato esperado YYYY-MM-DD o RFC3339")
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}
