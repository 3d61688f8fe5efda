package repository

import (
	"context"

	"github.com/jhoicas/localmart-api/internal/domain/entity"
)

// ApprovalRepository puerto de persistencia para la cola de aprobaciones.
type ApprovalRepository interface {
	Create(ctx context.Context, a *entity.Approval) error
	// GetForUpdate bloquea la aprobación dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Approval, error)
	// Decide fija el estado terminal, quién decidió y las notas.
	Decide(ctx context.Context, id, status, approvedBy string, notes *string) error
	ListPending(ctx context.Context) ([]*entity.ApprovalDetail, error)
	ListAll(ctx context.Context, limit, offset int) ([]*entity.ApprovalDetail, error)
}

// AdminRepository consultas agregadas de solo lectura.
type AdminRepository interface {
	Stats(ctx context.Context) (*entity.AdminStats, error)
}
