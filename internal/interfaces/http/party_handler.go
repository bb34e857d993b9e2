package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// partyService lo implementan *usecase.ClientUseCase y *usecase.SupplierUseCase.
type partyService interface {
	Create(ctx context.Context, in dto.PartyRequest) (*dto.PartyResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PartyResponse, error)
	Update(ctx context.Context, id string, in dto.UpdatePartyRequest) (*dto.PartyResponse, error)
	List(ctx context.Context, limit, offset int) (*dto.PartyListResponse, error)
}

// PartyHandler maneja clientes y proveedores (protegido); la ruta decide cuál.
type PartyHandler struct {
	uc partyService
}

// NewPartyHandler construye el handler.
func NewPartyHandler(uc partyService) *PartyHandler {
	return &PartyHandler{uc: uc}
}

// Create POST /api/clients | /api/suppliers
func (h *PartyHandler) Create(c *fiber.Ctx) error {
	var in dto.PartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/clients/:id | /api/suppliers/:id
func (h *PartyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/clients/:id | /api/suppliers/:id
func (h *PartyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List GET /api/clients?limit=20&offset=0
func (h *PartyHandler) List(c *fiber.Ctx) error {
	page := pageOf(c)
	out, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
