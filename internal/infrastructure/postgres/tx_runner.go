package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/localmart-api/internal/application/auth"
	"github.com/jhoicas/localmart-api/internal/application/ordering"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

// Ensure TxRunner implements auth.IdentityTxRunner and ordering.TxRunner.
var _ auth.IdentityTxRunner = (*TxRunner)(nil)
var _ ordering.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunIdentity transacción con repos de usuarios, tiendas y aprobaciones (registro pendiente,
// alta de tienda, decisión de aprobación).
func (r *TxRunner) RunIdentity(ctx context.Context, fn func(
	users repository.UserRepository,
	shops repository.ShopRepository,
	approvals repository.ApprovalRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewShopRepository(tx), NewApprovalRepository(tx))
	})
}

// RunOrdering transacción con repos de pedidos y productos (colocar y cancelar pedidos).
func (r *TxRunner) RunOrdering(ctx context.Context, fn func(
	orders repository.OrderRepository,
	products repository.ProductRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewProductRepository(tx))
	})
}

// run inicia la transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
