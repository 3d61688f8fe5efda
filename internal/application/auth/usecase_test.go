package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/localmart-api/internal/application/auth"
	"github.com/jhoicas/localmart-api/internal/application/dto"
	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/localmart-api/pkg/jwt"
)

const testSecret = "auth-test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	uc := auth.NewAuthUseCase(store.Users(), store, auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 60, Issuer: "localmart-test",
	}).WithHashCost(bcrypt.MinCost)
	return uc, store
}

func registerReq(email, role string) dto.RegisterRequest {
	return dto.RegisterRequest{Name: " Ana ", Email: email, Phone: "9000000000", Password: "secreto123", Role: role}
}

func TestRegister_ClienteActivoConToken(t *testing.T) {
	uc, _ := newAuth(t)
	out, err := uc.Register(context.Background(), registerReq(" Ana@LocalMart.test ", entity.RoleCustomer))
	require.NoError(t, err)

	assert.False(t, out.RequiresApproval)
	require.NotNil(t, out.User)
	assert.Equal(t, "ana@localmart.test", out.User.Email)
	assert.Equal(t, "Ana", out.User.Name)
	assert.Equal(t, entity.UserActive, out.User.Status)

	userID, role, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, userID)
	assert.Equal(t, entity.RoleCustomer, role)
}

func TestRegister_TenderoPendienteConAprobacion(t *testing.T) {
	uc, store := newAuth(t)
	out, err := uc.Register(context.Background(), registerReq("tendero@localmart.test", entity.RoleShopkeeper))
	require.NoError(t, err)

	assert.True(t, out.RequiresApproval)
	assert.Empty(t, out.Token)
	assert.Nil(t, out.User)

	u, err := store.Users().GetByEmail(context.Background(), "tendero@localmart.test")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.UserPending, u.Status)
	assert.NotEqual(t, "secreto123", u.PasswordHash)

	pending, err := store.Approvals().ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, entity.ApprovalUserRegistration, pending[0].Type)
	require.NotNil(t, pending[0].UserID)
	assert.Equal(t, u.ID, *pending[0].UserID)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc, _ := newAuth(t)
	_, err := uc.Register(context.Background(), registerReq("ana@localmart.test", entity.RoleCustomer))
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), registerReq("ANA@localmart.test", entity.RoleCourier))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Validaciones(t *testing.T) {
	uc, _ := newAuth(t)
	cases := []struct {
		name  string
		mod   func(*dto.RegisterRequest)
		field string
	}{
		{"sin nombre", func(r *dto.RegisterRequest) { r.Name = "  " }, "name"},
		{"email inválido", func(r *dto.RegisterRequest) { r.Email = "no-es-email" }, "email"},
		{"sin teléfono", func(r *dto.RegisterRequest) { r.Phone = "" }, "phone"},
		{"password corto", func(r *dto.RegisterRequest) { r.Password = "1234567" }, "password"},
		{"rol desconocido", func(r *dto.RegisterRequest) { r.Role = "superuser" }, "role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := registerReq("ana@localmart.test", entity.RoleCustomer)
			tc.mod(&in)
			_, err := uc.Register(context.Background(), in)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestLogin_Estados(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, registerReq("moto@localmart.test", entity.RoleCourier))
	require.NoError(t, err)
	u, err := store.Users().GetByEmail(ctx, "moto@localmart.test")
	require.NoError(t, err)

	login := dto.LoginRequest{Email: "moto@localmart.test", Password: "secreto123"}
	_, err = uc.Login(ctx, login)
	assert.ErrorIs(t, err, domain.ErrAccountPending)

	require.NoError(t, store.Users().UpdateStatus(ctx, u.ID, entity.UserSuspended))
	_, err = uc.Login(ctx, login)
	assert.ErrorIs(t, err, domain.ErrAccountSuspended)

	require.NoError(t, store.Users().UpdateStatus(ctx, u.ID, entity.UserRejected))
	_, err = uc.Login(ctx, login)
	assert.ErrorIs(t, err, domain.ErrAccountRejected)

	require.NoError(t, store.Users().UpdateStatus(ctx, u.ID, entity.UserActive))
	out, err := uc.Login(ctx, login)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleCourier, out.User.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.Register(ctx, registerReq("ana@localmart.test", entity.RoleCustomer))
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@localmart.test", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@localmart.test", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "email desconocido y password incorrecto son indistinguibles")

	_, err = uc.Login(ctx, dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestResolveSession(t *testing.T) {
	uc, store := newAuth(t)
	ctx := context.Background()
	out, err := uc.Register(ctx, registerReq("ana@localmart.test", entity.RoleCustomer))
	require.NoError(t, err)

	u, err := uc.ResolveSession(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, u.ID)

	// el estado se relee del store, no del token
	require.NoError(t, store.Users().UpdateStatus(ctx, u.ID, entity.UserSuspended))
	u, err = uc.ResolveSession(ctx, out.Token)
	require.NoError(t, err)
	assert.ErrorIs(t, auth.StatusError(u.Status), domain.ErrAccountSuspended)

	_, err = uc.ResolveSession(ctx, "basura")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	foreign, err := pkgjwt.Generate(testSecret, "no-existe", entity.RoleAdmin, "localmart-test", 60)
	require.NoError(t, err)
	_, err = uc.ResolveSession(ctx, foreign)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestStatusError(t *testing.T) {
	assert.NoError(t, auth.StatusError(entity.UserActive))
	assert.ErrorIs(t, auth.StatusError(entity.UserPending), domain.ErrAccountPending)
	assert.ErrorIs(t, auth.StatusError("desconocido"), domain.ErrForbidden)
}
