package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/lifecycle"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.OrderRepository   = (*OrderRepo)(nil)
)

// ProductRepo catálogo en memoria.
type ProductRepo struct{ base }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.lock()()
	return r.get(id), nil
}

// GetForUpdate dentro de RunOrdering el mutex ya está tomado; fuera equivale a GetByID.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) get(id string) *entity.Product {
	p, ok := r.s.products[id]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

// Update conserva stock, status y created_at de la fila guardada.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := *p
	c.Stock, c.Status, c.CreatedAt = cur.Stock, cur.Status, cur.CreatedAt
	r.s.products[p.ID] = &c
	return nil
}

func (r *ProductRepo) SetStock(_ context.Context, id string, stock int) error {
	if stock < 0 {
		return domain.NewValidationError("stock", "no puede ser negativo")
	}
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = stock
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *ProductRepo) SetStatus(_ context.Context, id, status string) error {
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ProductRepo) ListByShop(_ context.Context, shopID string, onlyActive bool) ([]*entity.Product, error) {
	defer r.lock()()
	out := []*entity.Product{}
	for _, p := range r.s.products {
		if p.ShopID != shopID || (onlyActive && p.Status != entity.ProductActive) {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *ProductRepo) DecrementStock(_ context.Context, id string, qty int) error {
	if qty <= 0 {
		return domain.NewValidationError("quantity", "debe ser mayor que 0")
	}
	defer r.lock()()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Stock < qty {
		return domain.ErrInsufficientStock
	}
	p.Stock -= qty
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IncrementStock ignora productos borrados después del pedido.
func (r *ProductRepo) IncrementStock(_ context.Context, id string, qty int) error {
	if qty <= 0 {
		return domain.NewValidationError("quantity", "debe ser mayor que 0")
	}
	defer r.lock()()
	if p, ok := r.s.products[id]; ok {
		p.Stock += qty
		p.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// OrderRepo pedidos en memoria.
type OrderRepo struct{ base }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	defer r.lock()()
	c := *o
	c.Items = append([]entity.OrderItem(nil), o.Items...)
	r.s.orders[o.ID] = &c
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	defer r.lock()()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return copyOrder(o), nil
}

func (r *OrderRepo) UpdateStatusIf(_ context.Context, id, from, to string) (bool, error) {
	defer r.lock()()
	o, ok := r.s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *OrderRepo) ClaimIfReady(_ context.Context, id, courierID string) (bool, error) {
	defer r.lock()()
	o, ok := r.s.orders[id]
	if !ok || o.Status != lifecycle.StatusReady || o.HasCourier() {
		return false, nil
	}
	c := courierID
	o.CourierID = &c
	o.Status = lifecycle.StatusPickedUp
	o.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *OrderRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.Order, error) {
	return r.filter(func(o *entity.Order) bool { return o.CustomerID == customerID }), nil
}

func (r *OrderRepo) ListByShop(_ context.Context, shopID string) ([]*entity.Order, error) {
	return r.filter(func(o *entity.Order) bool { return o.ShopID == shopID }), nil
}

func (r *OrderRepo) ListByCourier(_ context.Context, courierID string) ([]*entity.Order, error) {
	return r.filter(func(o *entity.Order) bool { return o.HasCourier() && *o.CourierID == courierID }), nil
}

func (r *OrderRepo) ListAvailable(_ context.Context) ([]*entity.AvailableOrder, error) {
	list := r.filter(func(o *entity.Order) bool { return o.Status == lifecycle.StatusReady && !o.HasCourier() })
	defer r.lock()()
	out := make([]*entity.AvailableOrder, 0, len(list))
	for _, o := range list {
		a := &entity.AvailableOrder{Order: *o}
		if s, ok := r.s.shops[o.ShopID]; ok {
			a.ShopName, a.ShopAddress = s.Name, s.Address
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *OrderRepo) filter(keep func(*entity.Order) bool) []*entity.Order {
	defer r.lock()()
	out := []*entity.Order{}
	for _, o := range r.s.orders {
		if keep(o) {
			out = append(out, copyOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

func copyOrder(o *entity.Order) *entity.Order {
	c := *o
	if o.CourierID != nil {
		id := *o.CourierID
		c.CourierID = &id
	}
	c.Items = append([]entity.OrderItem(nil), o.Items...)
	return &c
}
