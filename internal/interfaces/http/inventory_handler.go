package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// InventoryHandler consultas de stock del libro (protegido).
type InventoryHandler struct {
	queries *ledger.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(queries *ledger.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{queries: queries}
}

// ProductStock godoc
// @Summary      Stock actual de una fila de producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id} [get]
func (h *InventoryHandler) ProductStock(c *fiber.Ctx) error {
	p, err := h.queries.ProductStock(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(usecase.ToProductResponse(p))
}

// SKUStock godoc
// @Summary      Stock de un SKU en todas las bodegas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        sku  path  string  true  "SKU"
// @Success      200  {object}  dto.SKUStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/sku/{sku} [get]
func (h *InventoryHandler) SKUStock(c *fiber.Ctx) error {
	s, err := h.queries.SKUStock(c.Context(), c.Params("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SKUStockResponse{SKU: s.SKU, Total: s.Total, Rows: usecase.ToProductResponses(s.Rows)})
}

// LowStock godoc
// @Summary      Productos en o bajo el punto de reorden
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	page := pageOf(c)
	list, err := h.queries.LowStock(c.Context(), c.Query("warehouse_id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProductListResponse{
		Items: usecase.ToProductResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
