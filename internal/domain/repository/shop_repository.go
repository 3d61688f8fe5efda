package repository

import (
	"context"

	"github.com/jhoicas/localmart-api/internal/domain/entity"
)

// ShopRepository puerto de persistencia para Shop.
// Create devuelve domain.ErrShopAlreadyExists si el dueño ya tiene tienda.
type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	GetByID(ctx context.Context, id string) (*entity.Shop, error)
	GetByOwner(ctx context.Context, ownerID string) (*entity.Shop, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListByStatus(ctx context.Context, status string) ([]*entity.Shop, error)
	ListWithOwner(ctx context.Context, limit, offset int) ([]*entity.ShopWithOwner, error)
}
