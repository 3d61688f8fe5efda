package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/localmart-api/internal/application/dto"
	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

// Viewer quien consulta un catálogo.
type Viewer struct {
	UserID string
	Role   string
}

// ProductUseCase catálogo de la tienda del tendero autenticado.
// Los cambios de stock aquí son administrativos; los pedidos reservan stock por su cuenta.
type ProductUseCase struct {
	repo  repository.ProductRepository
	shops repository.ShopRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, shops repository.ShopRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, shops: shops}
}

// Create agrega un producto activo a la tienda del dueño.
func (uc *ProductUseCase) Create(ctx context.Context, ownerID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if err := validateProduct(in.Name, in.Price, in.Stock, in.Category); err != nil {
		return nil, err
	}
	shop, err := uc.ownShop(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &entity.Product{
		ID:          uuid.New().String(),
		ShopID:      shop.ID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		Barcode:     in.Barcode,
		ImageURL:    in.ImageURL,
		Status:      entity.ProductActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(p)
	return &out, nil
}

// Update aplica los campos presentes y valida el resultado completo.
func (uc *ProductUseCase) Update(ctx context.Context, ownerID, productID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.owned(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Barcode != nil {
		p.Barcode = in.Barcode
	}
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}
	if err := validateProduct(p.Name, p.Price, p.Stock, p.Category); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	// el stock leído arriba puede estar viejo: solo se escribe si viene en la petición
	if in.Stock != nil {
		if err := uc.repo.SetStock(ctx, p.ID, *in.Stock); err != nil {
			return nil, err
		}
	}
	fresh, err := uc.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewProductResponse(fresh)
	return &out, nil
}

// Delete elimina un producto propio.
func (uc *ProductUseCase) Delete(ctx context.Context, ownerID, productID string) error {
	if _, err := uc.owned(ctx, ownerID, productID); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, productID)
}

// SetStatus activa o desactiva un producto propio.
func (uc *ProductUseCase) SetStatus(ctx context.Context, ownerID, productID, status string) (*dto.ProductResponse, error) {
	if status != entity.ProductActive && status != entity.ProductInactive {
		return nil, domain.NewValidationError("status", "debe ser active o inactive")
	}
	p, err := uc.owned(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetStatus(ctx, productID, status); err != nil {
		return nil, err
	}
	p.Status = status
	out := dto.NewProductResponse(p)
	return &out, nil
}

// ListForShop todos los productos; solo el dueño de la tienda o un admin.
func (uc *ProductUseCase) ListForShop(ctx context.Context, viewer Viewer, shopID string) ([]dto.ProductResponse, error) {
	shop, err := uc.shops.GetByID(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	if viewer.Role != entity.RoleAdmin && !(viewer.Role == entity.RoleShopkeeper && shop.OwnerID == viewer.UserID) {
		return nil, domain.ErrForbidden
	}
	return uc.list(ctx, shopID, false)
}

// ListPublic productos activos de una tienda.
func (uc *ProductUseCase) ListPublic(ctx context.Context, shopID string) ([]dto.ProductResponse, error) {
	return uc.list(ctx, shopID, true)
}

func (uc *ProductUseCase) list(ctx context.Context, shopID string, onlyActive bool) ([]dto.ProductResponse, error) {
	products, err := uc.repo.ListByShop(ctx, shopID, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.NewProductResponse(p))
	}
	return out, nil
}

func (uc *ProductUseCase) ownShop(ctx context.Context, ownerID string) (*entity.Shop, error) {
	shop, err := uc.shops.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	return shop, nil
}

// owned carga el producto y verifica que pertenezca a la tienda del dueño.
func (uc *ProductUseCase) owned(ctx context.Context, ownerID, productID string) (*entity.Product, error) {
	p, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	shop, err := uc.shops.GetByID(ctx, p.ShopID)
	if err != nil {
		return nil, err
	}
	if shop == nil || shop.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func validateProduct(name string, price decimal.Decimal, stock int, category string) error {
	switch {
	case name == "":
		return domain.NewValidationError("name", "es requerido")
	case !price.IsPositive():
		return domain.NewValidationError("price", "debe ser mayor que 0")
	case !price.Equal(price.Round(2)):
		return domain.NewValidationError("price", "máximo 2 decimales")
	case stock < 0:
		return domain.NewValidationError("stock", "no puede ser negativo")
	case category == "":
		return domain.NewValidationError("category", "es requerido")
	}
	return nil
}
