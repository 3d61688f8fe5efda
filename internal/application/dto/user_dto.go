package dto

import "time"

// RegisterRequest entrada para registro.
type RegisterRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone" validate:"required"`
	Password       string  `json:"password" validate:"required,min=8"`
	Role           string  `json:"role" validate:"required,oneof=customer shopkeeper courier admin"`
	DrivingLicense *string `json:"driving_license,omitempty"`
}

// RegisterResponse token+usuario para cuentas activas o aviso de aprobación pendiente.
type RegisterResponse struct {
	Message          string        `json:"message,omitempty"`
	RequiresApproval bool          `json:"requires_approval"`
	Token            string        `json:"token,omitempty"`
	User             *UserResponse `json:"user,omitempty"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	DrivingLicense *string   `json:"driving_license,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
