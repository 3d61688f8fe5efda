package usecase

import (
	"context"

	"github.com/jhoicas/localmart-api/internal/application/approval"
	"github.com/jhoicas/localmart-api/internal/application/dto"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

// AdminUseCase vistas agregadas de solo lectura; las decisiones se delegan a ApprovalUseCase.
type AdminUseCase struct {
	stats     repository.AdminRepository
	users     repository.UserRepository
	shops     repository.ShopRepository
	approvals repository.ApprovalRepository
	decider   *approval.ApprovalUseCase
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(
	stats repository.AdminRepository,
	users repository.UserRepository,
	shops repository.ShopRepository,
	approvals repository.ApprovalRepository,
	decider *approval.ApprovalUseCase,
) *AdminUseCase {
	return &AdminUseCase{stats: stats, users: users, shops: shops, approvals: approvals, decider: decider}
}

func (uc *AdminUseCase) Stats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	s, err := uc.stats.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.AdminStatsResponse{
		TotalUsers:       s.TotalUsers,
		TotalShops:       s.TotalShops,
		TotalProducts:    s.TotalProducts,
		TotalOrders:      s.TotalOrders,
		PendingApprovals: s.PendingApprovals,
		ActiveShops:      s.ActiveShops,
		PendingUsers:     s.PendingUsers,
	}, nil
}

func (uc *AdminUseCase) Users(ctx context.Context, page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	users, err := uc.users.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return out, nil
}

func (uc *AdminUseCase) Shops(ctx context.Context, page dto.PageRequest) ([]dto.ShopResponse, error) {
	page.DefaultPage()
	shops, err := uc.shops.ListWithOwner(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShopResponse, 0, len(shops))
	for _, s := range shops {
		r := dto.NewShopResponse(&s.Shop)
		r.OwnerName = s.OwnerName
		r.OwnerEmail = s.OwnerEmail
		out = append(out, r)
	}
	return out, nil
}

// PendingApprovals cola pendiente con nombre/email/rol del solicitante y datos de la tienda.
func (uc *AdminUseCase) PendingApprovals(ctx context.Context) ([]dto.ApprovalResponse, error) {
	list, err := uc.approvals.ListPending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ApprovalResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.NewApprovalResponse(a))
	}
	return out, nil
}

// Approvals historial completo (pendientes y decididas).
func (uc *AdminUseCase) Approvals(ctx context.Context, page dto.PageRequest) ([]dto.ApprovalResponse, error) {
	page.DefaultPage()
	list, err := uc.approvals.ListAll(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ApprovalResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.NewApprovalResponse(a))
	}
	return out, nil
}

// Decide delega en ApprovalUseCase.DecideApproval.
func (uc *AdminUseCase) Decide(ctx context.Context, approvalID, action, adminID string, notes *string) (*dto.ApprovalResponse, error) {
	a, err := uc.decider.DecideApproval(ctx, approvalID, action, adminID, notes)
	if err != nil {
		return nil, err
	}
	out := dto.NewApprovalResponse(&entity.ApprovalDetail{Approval: *a})
	return &out, nil
}
