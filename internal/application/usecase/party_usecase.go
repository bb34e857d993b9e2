package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/validation"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ClientUseCase alta y consulta de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

func (uc *ClientUseCase) Create(ctx context.Context, in dto.PartyRequest) (*dto.PartyResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	client := entity.Client{
		ID:            uuid.New().String(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, &client); err != nil {
		return nil, err
	}
	return toPartyResponse(entity.Supplier(client)), nil
}

func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*dto.PartyResponse, error) {
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("cliente", id)
	}
	return toPartyResponse(entity.Supplier(*client)), nil
}

func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdatePartyRequest) (*dto.PartyResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	client, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.NotFound("cliente", id)
	}
	p := entity.Supplier(*client)
	applyParty(&p, in)
	updated := entity.Client(p)
	if err := uc.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return toPartyResponse(p), nil
}

func (uc *ClientUseCase) List(ctx context.Context, limit, offset int) (*dto.PartyListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toPartyResponse(entity.Supplier(*c)))
	}
	return &dto.PartyListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// SupplierUseCase alta y consulta de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

func (uc *SupplierUseCase) Create(ctx context.Context, in dto.PartyRequest) (*dto.PartyResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:            uuid.New().String(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return toPartyResponse(*supplier), nil
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.PartyResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NotFound("proveedor", id)
	}
	return toPartyResponse(*supplier), nil
}

func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdatePartyRequest) (*dto.PartyResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NotFound("proveedor", id)
	}
	applyParty(supplier, in)
	if err := uc.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return toPartyResponse(*supplier), nil
}

func (uc *SupplierUseCase) List(ctx context.Context, limit, offset int) (*dto.PartyListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartyResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toPartyResponse(*s))
	}
	return &dto.PartyListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// applyParty aplica los campos presentes. Client y Supplier comparten estructura,
// así que ambos pasan por Supplier.
func applyParty(p *entity.Supplier, in dto.UpdatePartyRequest) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.ContactPerson != nil {
		p.ContactPerson = *in.ContactPerson
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}
	p.UpdatedAt = time.Now()
}

func toPartyResponse(p entity.Supplier) *dto.PartyResponse {
	return &dto.PartyResponse{
		ID:            p.ID,
		Name:          p.Name,
		ContactPerson: p.ContactPerson,
		Email:         p.Email,
		Phone:         p.Phone,
		Address:       p.Address,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
