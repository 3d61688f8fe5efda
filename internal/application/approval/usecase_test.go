package approval_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/localmart-api/internal/application/approval"
	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/infrastructure/memory"
)

const adminID = "admin-1"

func seedPendingCourier(t *testing.T, store *memory.Store) (userID, approvalID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	userID, approvalID = "moto-1", "apr-user"
	require.NoError(t, store.Users().Create(ctx, &entity.User{
		ID: userID, Name: "Moto", Email: "moto@localmart.test", Role: entity.RoleCourier,
		Status: entity.UserPending, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Approvals().Create(ctx, &entity.Approval{
		ID: approvalID, Type: entity.ApprovalUserRegistration, UserID: &userID,
		Status: entity.ApprovalPending, CreatedAt: now, UpdatedAt: now,
	}))
	return userID, approvalID
}

func seedPendingShop(t *testing.T, store *memory.Store) (shopID, approvalID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	shopID, approvalID = "tienda-1", "apr-shop"
	require.NoError(t, store.Shops().Create(ctx, &entity.Shop{
		ID: shopID, OwnerID: "tendero-1", Name: "Kirana", Address: "Calle 1",
		Status: entity.ShopPending, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Approvals().Create(ctx, &entity.Approval{
		ID: approvalID, Type: entity.ApprovalShop, ShopID: &shopID,
		Status: entity.ApprovalPending, CreatedAt: now, UpdatedAt: now,
	}))
	return shopID, approvalID
}

func TestDecide_AprobarUsuarioActivaLaCuenta(t *testing.T) {
	store := memory.NewStore()
	userID, approvalID := seedPendingCourier(t, store)
	uc := approval.NewApprovalUseCase(store)
	notes := "documentos ok"

	a, err := uc.DecideApproval(context.Background(), approvalID, entity.ActionApprove, adminID, &notes)
	require.NoError(t, err)
	assert.Equal(t, entity.ApprovalApproved, a.Status)
	require.NotNil(t, a.ApprovedBy)
	assert.Equal(t, adminID, *a.ApprovedBy)
	assert.Equal(t, &notes, a.Notes)

	u, err := store.Users().GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, entity.UserActive, u.Status)
}

func TestDecide_RechazarTiendaLaMarcaRechazada(t *testing.T) {
	store := memory.NewStore()
	shopID, approvalID := seedPendingShop(t, store)
	uc := approval.NewApprovalUseCase(store)

	_, err := uc.DecideApproval(context.Background(), approvalID, entity.ActionReject, adminID, nil)
	require.NoError(t, err)

	s, err := store.Shops().GetByID(context.Background(), shopID)
	require.NoError(t, err)
	assert.Equal(t, entity.ShopRejected, s.Status)

	pending, err := store.Approvals().ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDecide_SoloUnaVez(t *testing.T) {
	store := memory.NewStore()
	userID, approvalID := seedPendingCourier(t, store)
	uc := approval.NewApprovalUseCase(store)

	_, err := uc.DecideApproval(context.Background(), approvalID, entity.ActionApprove, adminID, nil)
	require.NoError(t, err)
	_, err = uc.DecideApproval(context.Background(), approvalID, entity.ActionReject, adminID, nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)

	u, err := store.Users().GetByID(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, entity.UserActive, u.Status, "la segunda decisión no toca la cuenta")
}

func TestDecide_ConcurrenteUnaSolaGana(t *testing.T) {
	store := memory.NewStore()
	_, approvalID := seedPendingCourier(t, store)
	uc := approval.NewApprovalUseCase(store)

	actions := []string{entity.ActionApprove, entity.ActionReject, entity.ActionApprove, entity.ActionReject}
	errs := make([]error, len(actions))
	var wg sync.WaitGroup
	for i, action := range actions {
		wg.Add(1)
		go func(i int, action string) {
			defer wg.Done()
			_, errs[i] = uc.DecideApproval(context.Background(), approvalID, action, adminID, nil)
		}(i, action)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
	}
	assert.Equal(t, 1, ok)
}

func TestDecide_AccionInvalida(t *testing.T) {
	store := memory.NewStore()
	_, approvalID := seedPendingCourier(t, store)
	uc := approval.NewApprovalUseCase(store)

	_, err := uc.DecideApproval(context.Background(), approvalID, "maybe", adminID, nil)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "action", ve.Field)
}

func TestDecide_Inexistente(t *testing.T) {
	uc := approval.NewApprovalUseCase(memory.NewStore())
	_, err := uc.DecideApproval(context.Background(), "no-existe", entity.ActionApprove, adminID, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// La cascada es atómica: si la cuenta no existe, la aprobación sigue pendiente.
func TestDecide_CascadaFallidaRevierte(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	ghost := "fantasma"
	now := time.Now().UTC()
	require.NoError(t, store.Approvals().Create(ctx, &entity.Approval{
		ID: "apr-ghost", Type: entity.ApprovalUserRegistration, UserID: &ghost,
		Status: entity.ApprovalPending, CreatedAt: now, UpdatedAt: now,
	}))
	uc := approval.NewApprovalUseCase(store)

	_, err := uc.DecideApproval(ctx, "apr-ghost", entity.ActionApprove, adminID, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	pending, err := store.Approvals().ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, entity.ApprovalPending, pending[0].Status)
}
