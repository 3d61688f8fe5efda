package repository

import (
	"context"

	"github.com/jhoicas/localmart-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para el catálogo.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Update escribe los datos descriptivos y el precio; nunca stock ni status.
	Update(ctx context.Context, p *entity.Product) error
	// SetStock ajuste administrativo del inventario.
	SetStock(ctx context.Context, id string, stock int) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id, status string) error
	ListByShop(ctx context.Context, shopID string, onlyActive bool) ([]*entity.Product, error)

	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// DecrementStock resta qty solo si stock >= qty; si no, domain.ErrInsufficientStock.
	DecrementStock(ctx context.Context, id string, qty int) error
	IncrementStock(ctx context.Context, id string, qty int) error
}
