package auth

import (
	"context"

	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

// IdentityTxRunner ejecuta fn dentro de una transacción con repos de identidad atados a ella.
// Lo usan el registro pendiente, el alta de tiendas y la decisión de aprobaciones.
type IdentityTxRunner interface {
	RunIdentity(ctx context.Context, fn func(
		users repository.UserRepository,
		shops repository.ShopRepository,
		approvals repository.ApprovalRepository,
	) error) error
}
