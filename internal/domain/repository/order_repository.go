package repository

import (
	"context"

	"github.com/jhoicas/localmart-api/internal/domain/entity"
)

// OrderRepository puerto de persistencia para pedidos.
// Los cambios de estado son siempre escrituras condicionales: el bool indica si la fila cambió.
type OrderRepository interface {
	// Create inserta el pedido y sus líneas.
	Create(ctx context.Context, o *entity.Order) error
	// GetByID devuelve el pedido con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.Order, error)

	// UpdateStatusIf cambia a `to` solo si el estado actual sigue siendo `from`.
	UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error)
	// ClaimIfReady asigna courierID y pasa a picked_up solo si está ready y sin repartidor.
	ClaimIfReady(ctx context.Context, id, courierID string) (bool, error)

	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Order, error)
	ListByShop(ctx context.Context, shopID string) ([]*entity.Order, error)
	ListByCourier(ctx context.Context, courierID string) ([]*entity.Order, error)
	// ListAvailable pedidos ready sin repartidor, con nombre y dirección de la tienda.
	ListAvailable(ctx context.Context) ([]*entity.AvailableOrder, error)
}
