// Package memory implementa todos los puertos de persistencia en proceso.
// Un único mutex serializa cada llamada; las transacciones lo retienen completo y
// restauran una copia del estado si fn falla, así las escrituras condicionales
// se comportan igual que en PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/localmart-api/internal/application/auth"
	"github.com/jhoicas/localmart-api/internal/application/ordering"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

var (
	_ auth.IdentityTxRunner = (*Store)(nil)
	_ ordering.TxRunner     = (*Store)(nil)
)

// Store estado completo de la aplicación en memoria.
type Store struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	shops     map[string]*entity.Shop
	products  map[string]*entity.Product
	orders    map[string]*entity.Order
	approvals map[string]*entity.Approval
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:     map[string]*entity.User{},
		shops:     map[string]*entity.Shop{},
		products:  map[string]*entity.Product{},
		orders:    map[string]*entity.Order{},
		approvals: map[string]*entity.Approval{},
	}
}

// base lo comparten todos los repos: inTx indica que el mutex ya lo tiene el runner.
type base struct {
	s    *Store
	inTx bool
}

func (b base) lock() func() {
	if b.inTx {
		return func() {}
	}
	b.s.mu.Lock()
	return b.s.mu.Unlock
}

func (s *Store) Users() *UserRepo         { return &UserRepo{base{s: s}} }
func (s *Store) Shops() *ShopRepo         { return &ShopRepo{base{s: s}} }
func (s *Store) Products() *ProductRepo   { return &ProductRepo{base{s: s}} }
func (s *Store) Orders() *OrderRepo       { return &OrderRepo{base{s: s}} }
func (s *Store) Approvals() *ApprovalRepo { return &ApprovalRepo{base{s: s}} }
func (s *Store) Admin() *AdminRepo        { return &AdminRepo{base{s: s}} }

// RunIdentity ejecuta fn con repos de usuarios, tiendas y aprobaciones en exclusión mutua.
func (s *Store) RunIdentity(ctx context.Context, fn func(
	users repository.UserRepository,
	shops repository.ShopRepository,
	approvals repository.ApprovalRepository,
) error) error {
	return s.run(ctx, func(b base) error {
		return fn(&UserRepo{b}, &ShopRepo{b}, &ApprovalRepo{b})
	})
}

// RunOrdering ejecuta fn con repos de pedidos y productos en exclusión mutua.
func (s *Store) RunOrdering(ctx context.Context, fn func(
	orders repository.OrderRepository,
	products repository.ProductRepository,
) error) error {
	return s.run(ctx, func(b base) error {
		return fn(&OrderRepo{b}, &ProductRepo{b})
	})
}

func (s *Store) run(ctx context.Context, fn func(b base) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshot()
	if err := fn(base{s: s, inTx: true}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	users     map[string]*entity.User
	shops     map[string]*entity.Shop
	products  map[string]*entity.Product
	orders    map[string]*entity.Order
	approvals map[string]*entity.Approval
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		users:     cloneMap(s.users),
		shops:     cloneMap(s.shops),
		products:  cloneMap(s.products),
		orders:    cloneMap(s.orders),
		approvals: cloneMap(s.approvals),
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.shops = snap.shops
	s.products = snap.products
	s.orders = snap.orders
	s.approvals = snap.approvals
}

// cloneMap copia cada valor; las líneas de pedido son inmutables y se comparten.
func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		c := *v
		out[k] = &c
	}
	return out
}
