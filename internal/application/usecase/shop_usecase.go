package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/localmart-api/internal/application/auth"
	"github.com/jhoicas/localmart-api/internal/application/dto"
	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
)

// ShopUseCase alta y consulta de tiendas.
type ShopUseCase struct {
	repo repository.ShopRepository
	tx   auth.IdentityTxRunner
}

// NewShopUseCase construye el caso de uso.
func NewShopUseCase(repo repository.ShopRepository, tx auth.IdentityTxRunner) *ShopUseCase {
	return &ShopUseCase{repo: repo, tx: tx}
}

// Create registra la tienda del tendero en estado pending junto con su solicitud de aprobación.
// Un segundo intento del mismo dueño devuelve ErrShopAlreadyExists.
func (uc *ShopUseCase) Create(ctx context.Context, ownerID string, in dto.CreateShopRequest) (*dto.ShopResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "es requerido")
	}
	if in.Address == "" {
		return nil, domain.NewValidationError("address", "es requerido")
	}
	if in.Phone == "" {
		in.Phone = entity.DefaultShopPhone
	}

	existing, err := uc.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrShopAlreadyExists
	}

	now := time.Now().UTC()
	shop := &entity.Shop{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Status:    entity.ShopPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.tx.RunIdentity(ctx, func(_ repository.UserRepository, shops repository.ShopRepository, approvals repository.ApprovalRepository) error {
		// la unicidad de owner_id cubre la carrera entre el GetByOwner y este insert
		if err := shops.Create(ctx, shop); err != nil {
			return err
		}
		return approvals.Create(ctx, &entity.Approval{
			ID:        uuid.New().String(),
			Type:      entity.ApprovalShop,
			ShopID:    &shop.ID,
			Status:    entity.ApprovalPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewShopResponse(shop)
	return &out, nil
}

// MyShop tienda del dueño o ErrNotFound.
func (uc *ShopUseCase) MyShop(ctx context.Context, ownerID string) (*dto.ShopResponse, error) {
	shop, err := uc.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewShopResponse(shop)
	return &out, nil
}

// Nearby devuelve todas las tiendas aprobadas; lat/lng/radius todavía no filtran.
func (uc *ShopUseCase) Nearby(ctx context.Context, _ dto.NearbyShopsQuery) ([]dto.ShopResponse, error) {
	shops, err := uc.repo.ListByStatus(ctx, entity.ShopApproved)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShopResponse, 0, len(shops))
	for _, s := range shops {
		out = append(out, dto.NewShopResponse(s))
	}
	return out, nil
}
