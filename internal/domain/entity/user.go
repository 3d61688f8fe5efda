package entity

import "time"

// Roles válidos para User.
const (
	RoleCustomer   = "customer"
	RoleShopkeeper = "shopkeeper"
	RoleCourier    = "courier"
	RoleAdmin      = "admin"
)

// Estados de cuenta.
const (
	UserActive    = "active"
	UserPending   = "pending"
	UserSuspended = "suspended"
	UserRejected  = "rejected"
)

// User representa una cuenta de la plataforma.
type User struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	PasswordHash   string // bcrypt hash, nunca plano en dominio después de persistir
	Role           string
	Status         string
	DrivingLicense *string // solo repartidores
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsValidRole indica si el rol es uno de los cuatro conocidos.
func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleShopkeeper, RoleCourier, RoleAdmin:
		return true
	}
	return false
}

// RequiresApproval: tenderos y repartidores nacen pendientes.
func RequiresApproval(role string) bool {
	return role == RoleShopkeeper || role == RoleCourier
}

// IsActive indica si la cuenta puede operar.
func (u *User) IsActive() bool { return u != nil && u.Status == UserActive }
