package approval

import (
	"context"
	"time"

	"github.com/jhoicas/localmart-api/internal/application/auth"
	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

// ApprovalUseCase decide solicitudes pendientes y propaga el resultado al usuario o la tienda.
type ApprovalUseCase struct {
	tx auth.IdentityTxRunner
}

func NewApprovalUseCase(tx auth.IdentityTxRunner) *ApprovalUseCase {
	return &ApprovalUseCase{tx: tx}
}

// DecideApproval aprueba o rechaza una solicitud una sola vez.
// Aprobación y cascada (usuario active|rejected, tienda approved|rejected) van en la misma transacción.
func (uc *ApprovalUseCase) DecideApproval(ctx context.Context, approvalID, action, adminID string, notes *string) (*entity.Approval, error) {
	var status, userStatus, shopStatus string
	switch action {
	case entity.ActionApprove:
		status, userStatus, shopStatus = entity.ApprovalApproved, entity.UserActive, entity.ShopApproved
	case entity.ActionReject:
		status, userStatus, shopStatus = entity.ApprovalRejected, entity.UserRejected, entity.ShopRejected
	default:
		return nil, domain.NewValidationError("action", "debe ser approve o reject")
	}
	if approvalID == "" {
		return nil, domain.ErrNotFound
	}

	var decided *entity.Approval
	err := uc.tx.RunIdentity(ctx, func(users repository.UserRepository, shops repository.ShopRepository, approvals repository.ApprovalRepository) error {
		a, err := approvals.GetForUpdate(ctx, approvalID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if a.Status != entity.ApprovalPending {
			return domain.ErrAlreadyDecided
		}
		if err := approvals.Decide(ctx, a.ID, status, adminID, notes); err != nil {
			return err
		}

		switch a.Type {
		case entity.ApprovalUserRegistration:
			if a.UserID == nil {
				return domain.ErrNotFound
			}
			if err := users.UpdateStatus(ctx, *a.UserID, userStatus); err != nil {
				return err
			}
		case entity.ApprovalShop:
			if a.ShopID == nil {
				return domain.ErrNotFound
			}
			if err := shops.UpdateStatus(ctx, *a.ShopID, shopStatus); err != nil {
				return err
			}
		}

		a.Status = status
		a.ApprovedBy = &adminID
		a.Notes = notes
		a.UpdatedAt = time.Now().UTC()
		decided = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decided, nil
}
