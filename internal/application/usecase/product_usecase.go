package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/validation"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/money"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase casos de uso CRUD para productos. Quantity y bodega se manejan vía el libro de stock.
type ProductUseCase struct {
	repo       repository.ProductRepository
	warehouses repository.WarehouseRepository
	suppliers  repository.SupplierRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	warehouses repository.WarehouseRepository,
	suppliers repository.SupplierRepository,
	categories repository.CategoryRepository,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, warehouses: warehouses, suppliers: suppliers, categories: categories}
}

// Create crea una fila de producto con cantidad 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := nonNegative(map[string]decimal.Decimal{
		"reorder_level": in.ReorderLevel,
		"buying_price":  in.BuyingPrice,
		"selling_price": in.SellingPrice,
	}); err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, in.CategoryID, in.SupplierID); err != nil {
		return nil, err
	}
	if in.WarehouseID != "" {
		w, err := uc.warehouses.GetByID(ctx, in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if w == nil {
			return nil, domain.NotFound("bodega", in.WarehouseID)
		}
		if !w.Active {
			return nil, domain.Invalid("warehouse_id", "la bodega está inactiva")
		}
		existing, err := uc.repo.GetBySKUAndWarehouse(ctx, in.SKU, in.WarehouseID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "unit"
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		SKU:            in.SKU,
		Name:           in.Name,
		Description:    in.Description,
		CategoryID:     in.CategoryID,
		SupplierID:     in.SupplierID,
		WarehouseID:    in.WarehouseID,
		UnitMeasure:    in.UnitMeasure,
		Quantity:       decimal.Zero,
		ReorderLevel:   money.Qty(in.ReorderLevel),
		BuyingPrice:    money.Amount(in.BuyingPrice),
		SellingPrice:   money.Amount(in.SellingPrice),
		ShipmentNumber: in.ShipmentNumber,
		ExpiryDate:     in.ExpiryDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Update actualiza campos descriptivos. No permite modificar Quantity ni WarehouseID.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	prices := map[string]decimal.Decimal{}
	if in.ReorderLevel != nil {
		prices["reorder_level"] = *in.ReorderLevel
	}
	if in.BuyingPrice != nil {
		prices["buying_price"] = *in.BuyingPrice
	}
	if in.SellingPrice != nil {
		prices["selling_price"] = *in.SellingPrice
	}
	if err := nonNegative(prices); err != nil {
		return nil, err
	}
	var category, supplier string
	if in.CategoryID != nil {
		category = *in.CategoryID
	}
	if in.SupplierID != nil {
		supplier = *in.SupplierID
	}
	if err := uc.checkRefs(ctx, category, supplier); err != nil {
		return nil, err
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.SupplierID != nil {
		product.SupplierID = *in.SupplierID
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	if in.ReorderLevel != nil {
		product.ReorderLevel = money.Qty(*in.ReorderLevel)
	}
	if in.BuyingPrice != nil {
		product.BuyingPrice = money.Amount(*in.BuyingPrice)
	}
	if in.SellingPrice != nil {
		product.SellingPrice = money.Amount(*in.SellingPrice)
	}
	if in.ShipmentNumber != nil {
		product.ShipmentNumber = *in.ShipmentNumber
	}
	if in.ExpiryDate != nil {
		product.ExpiryDate = in.ExpiryDate
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List lista productos filtrando por bodega y SKU.
func (uc *ProductUseCase) List(ctx context.Context, warehouseID, sku string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		WarehouseID: warehouseID,
		SKU:         sku,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: ToProductResponses(list),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("producto", id)
	}
	return product, nil
}

// checkRefs verifica que categoría y proveedor existan; vacío significa sin referencia.
func (uc *ProductUseCase) checkRefs(ctx context.Context, categoryID, supplierID string) error {
	if categoryID != "" {
		c, err := uc.categories.GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("categoría", categoryID)
		}
	}
	if supplierID != "" {
		s, err := uc.suppliers.GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NotFound("proveedor", supplierID)
		}
	}
	return nil
}

// nonNegative además acota cada valor a la precisión de su columna.
func nonNegative(values map[string]decimal.Decimal) error {
	for field, v := range values {
		if v.IsNegative() {
			return domain.Invalid(field, "no puede ser negativo")
		}
		check := money.CheckAmount
		if field == "reorder_level" {
			check = money.CheckQty
		}
		if err := check(field, v); err != nil {
			return err
		}
	}
	return nil
}

// ToProductResponse mapea una fila de producto.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		SupplierID:     p.SupplierID,
		WarehouseID:    p.WarehouseID,
		UnitMeasure:    p.UnitMeasure,
		Quantity:       p.Quantity,
		ReorderLevel:   p.ReorderLevel,
		LowStock:       p.IsLowStock(),
		BuyingPrice:    p.BuyingPrice,
		SellingPrice:   p.SellingPrice,
		ShipmentNumber: p.ShipmentNumber,
		ExpiryDate:     p.ExpiryDate,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProductResponses mapea una lista de filas.
func ToProductResponses(list []*entity.Product) []dto.ProductResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return items
}
