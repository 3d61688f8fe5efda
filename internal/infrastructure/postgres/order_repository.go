package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/lifecycle"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos sobre PostgreSQL. Los cambios de estado son UPDATE condicionales;
// RowsAffected() == 0 significa que otra petición llegó antes.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `o.id, o.customer_id, o.shop_id, o.courier_id, o.subtotal, o.delivery_fee, o.service_fee,
	o.total_amount, o.delivery_address, o.notes, o.status, o.created_at, o.updated_at`

func orderDest(o *entity.Order) []any {
	return []any{&o.ID, &o.CustomerID, &o.ShopID, &o.CourierID, &o.Subtotal, &o.DeliveryFee, &o.ServiceFee,
		&o.TotalAmount, &o.DeliveryAddress, &o.Notes, &o.Status, &o.CreatedAt, &o.UpdatedAt}
}

// Create inserta cabecera y líneas. Llamar dentro de RunOrdering para que sea atómico.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, customer_id, shop_id, courier_id, subtotal, delivery_fee, service_fee,
			total_amount, delivery_address, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.CustomerID, o.ShopID, o.CourierID, o.Subtotal, o.DeliveryFee, o.ServiceFee,
		o.TotalAmount, o.DeliveryAddress, o.Notes, o.Status, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, it := range o.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, o.ID, it.ProductID, it.Quantity, it.Price, it.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id).Scan(orderDest(&o)...)
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderRepo) items(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price, created_at
		FROM order_items WHERE order_id = $1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// UpdateStatusIf UPDATE ... WHERE status = from.
func (r *OrderRepo) UpdateStatusIf(ctx context.Context, id, from, to string) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ClaimIfReady compare-and-swap de la asignación: solo una petición concurrente puede afectar la fila.
func (r *OrderRepo) ClaimIfReady(ctx context.Context, id, courierID string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders SET courier_id = $2, status = $3, updated_at = now()
		WHERE id = $1 AND status = $4 AND courier_id IS NULL`,
		id, courierID, lifecycle.StatusPickedUp, lifecycle.StatusReady)
	if err != nil {
		return false, fmt.Errorf("claim order: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Order, error) {
	return r.list(ctx, `WHERE o.customer_id = $1`, customerID)
}

func (r *OrderRepo) ListByShop(ctx context.Context, shopID string) ([]*entity.Order, error) {
	return r.list(ctx, `WHERE o.shop_id = $1`, shopID)
}

func (r *OrderRepo) ListByCourier(ctx context.Context, courierID string) ([]*entity.Order, error) {
	return r.list(ctx, `WHERE o.courier_id = $1`, courierID)
}

func (r *OrderRepo) list(ctx context.Context, where string, arg string) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM orders o `+where+` ORDER BY o.created_at DESC, o.id DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	list := []*entity.Order{}
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(orderDest(&o)...); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// ListAvailable pedidos ready sin repartidor con datos de recogida.
func (r *OrderRepo) ListAvailable(ctx context.Context) ([]*entity.AvailableOrder, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+orderColumns+`, s.name, s.address
		FROM orders o JOIN shops s ON s.id = o.shop_id
		WHERE o.status = $1 AND o.courier_id IS NULL
		ORDER BY o.created_at DESC, o.id DESC`, lifecycle.StatusReady)
	if err != nil {
		return nil, fmt.Errorf("list available orders: %w", err)
	}
	defer rows.Close()
	list := []*entity.AvailableOrder{}
	for rows.Next() {
		var a entity.AvailableOrder
		dest := append(orderDest(&a.Order), &a.ShopName, &a.ShopAddress)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan available order: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
