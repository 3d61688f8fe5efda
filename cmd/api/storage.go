package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/localmart-api/internal/application/auth"
	"github.com/jhoicas/localmart-api/internal/application/ordering"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
	"github.com/jhoicas/localmart-api/internal/infrastructure/memory"
	"github.com/jhoicas/localmart-api/internal/infrastructure/postgres"
	"github.com/jhoicas/localmart-api/pkg/config"
	"github.com/jhoicas/localmart-api/pkg/logger"
)

// storage repositorios y runners de transacción del backend elegido con DB_DRIVER.
type storage struct {
	users     repository.UserRepository
	shops     repository.ShopRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	approvals repository.ApprovalRepository
	admin     repository.AdminRepository
	identity  auth.IdentityTxRunner
	ordering  ordering.TxRunner
	close     func()
}

func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*storage, error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			users:     s.Users(),
			shops:     s.Shops(),
			products:  s.Products(),
			orders:    s.Orders(),
			approvals: s.Approvals(),
			admin:     s.Admin(),
			identity:  s,
			ordering:  s,
			close:     func() {},
		}, nil
	}

	if cfg.AutoMigrate {
		if err := postgres.Migrate(cfg.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	tx := postgres.NewTxRunner(pool)
	return &storage{
		users:     postgres.NewUserRepository(pool),
		shops:     postgres.NewShopRepository(pool),
		products:  postgres.NewProductRepository(pool),
		orders:    postgres.NewOrderRepository(pool),
		approvals: postgres.NewApprovalRepository(pool),
		admin:     postgres.NewAdminRepository(pool),
		identity:  tx,
		ordering:  tx,
		close:     pool.Close,
	}, nil
}
