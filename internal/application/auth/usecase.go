package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/localmart-api/internal/application/dto"
	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
	"github.com/jhoicas/localmart-api/internal/domain/repository"
	"github.com/jhoicas/localmart-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

const minPasswordLen = 8

// AuthUseCase casos de uso de identidad: registro, login y resolución de sesión.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	tx        IdentityTxRunner
	jwtCfg    JWTConfig
	hashCost  int
	dummyHash []byte
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tx IdentityTxRunner, jwtCfg JWTConfig) *AuthUseCase {
	return (&AuthUseCase{userRepo: userRepo, tx: tx, jwtCfg: jwtCfg}).WithHashCost(bcrypt.DefaultCost)
}

// WithHashCost cambia el costo de bcrypt (los tests usan bcrypt.MinCost).
func (uc *AuthUseCase) WithHashCost(cost int) *AuthUseCase {
	uc.hashCost = cost
	// hash de relleno para que un email desconocido tarde lo mismo que uno existente
	uc.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("localmart-dummy-password"), cost)
	return uc
}

// Register crea la cuenta. Clientes y administradores quedan activos y reciben token;
// tenderos y repartidores quedan pendientes junto con su aprobación, en la misma transacción.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResponse, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.hashCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var license *string
	if in.DrivingLicense != nil && strings.TrimSpace(*in.DrivingLicense) != "" {
		l := strings.TrimSpace(*in.DrivingLicense)
		license = &l
	}
	user := &entity.User{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		PasswordHash:   string(hash),
		Role:           in.Role,
		Status:         entity.UserActive,
		DrivingLicense: license,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if entity.RequiresApproval(in.Role) {
		user.Status = entity.UserPending
		err := uc.tx.RunIdentity(ctx, func(users repository.UserRepository, _ repository.ShopRepository, approvals repository.ApprovalRepository) error {
			if err := users.Create(ctx, user); err != nil {
				return err
			}
			return approvals.Create(ctx, &entity.Approval{
				ID:        uuid.New().String(),
				Type:      entity.ApprovalUserRegistration,
				UserID:    &user.ID,
				Status:    entity.ApprovalPending,
				CreatedAt: now,
				UpdatedAt: now,
			})
		})
		if err != nil {
			return nil, err
		}
		return &dto.RegisterResponse{
			Message:          "Registro enviado. Tu cuenta será activada cuando un administrador la apruebe.",
			RequiresApproval: true,
		}, nil
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	token, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &dto.RegisterResponse{Token: token, User: &resp}, nil
}

// Login verifica email/password y el estado de la cuenta; genera JWT.
// Email desconocido y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(uc.dummyHash, []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := statusError(user.Status); err != nil {
		return nil, err
	}
	token, err := uc.issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

// ResolveSession valida el token y devuelve el usuario leído de nuevo del store.
// No comprueba el estado de la cuenta; eso lo decide quien llama.
func (uc *AuthUseCase) ResolveSession(ctx context.Context, token string) (*entity.User, error) {
	userID, _, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

// StatusError traduce el estado de la cuenta al error de acceso correspondiente (nil si está activa).
func StatusError(status string) error { return statusError(status) }

func statusError(status string) error {
	switch status {
	case entity.UserActive:
		return nil
	case entity.UserPending:
		return domain.ErrAccountPending
	case entity.UserSuspended:
		return domain.ErrAccountSuspended
	case entity.UserRejected:
		return domain.ErrAccountRejected
	default:
		return domain.ErrForbidden
	}
}

func (uc *AuthUseCase) issue(u *entity.User) (string, error) {
	return jwt.Generate(uc.jwtCfg.Secret, u.ID, u.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validateRegister(in dto.RegisterRequest) error {
	switch {
	case in.Name == "":
		return domain.NewValidationError("name", "es requerido")
	case in.Email == "":
		return domain.NewValidationError("email", "es requerido")
	case !validEmail(in.Email):
		return domain.NewValidationError("email", "formato inválido")
	case in.Phone == "":
		return domain.NewValidationError("phone", "es requerido")
	case len(in.Password) < minPasswordLen:
		return domain.NewValidationError("password", "debe tener al menos 8 caracteres")
	case !entity.IsValidRole(in.Role):
		return domain.NewValidationError("role", "debe ser customer, shopkeeper, courier o admin")
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
