package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrForbidden          = errors.New("acceso denegado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")

	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrInvalidToken       = errors.New("token inválido o expirado")
	ErrAccountPending     = errors.New("cuenta pendiente de aprobación")
	ErrAccountSuspended   = errors.New("cuenta suspendida")
	ErrAccountRejected    = errors.New("cuenta rechazada")

	ErrAlreadyDecided    = errors.New("la aprobación ya fue decidida")
	ErrShopAlreadyExists = errors.New("el usuario ya tiene una tienda")
	ErrShopNotAvailable  = errors.New("la tienda no está disponible")

	ErrInvalidTransition   = errors.New("transición de estado inválida")
	ErrOrderAlreadyClaimed = errors.New("el pedido ya fue tomado por otro repartidor")
	ErrTooLateToCancel     = errors.New("el pedido ya no se puede cancelar")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrPriceMismatch       = errors.New("el precio no coincide con el catálogo")
)

// ValidationError identifica el primer campo inválido de una entrada.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atajo para construir un ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// TransitionError transición rechazada por la máquina de estados; lleva el estado actual y el pedido.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transición inválida: %s -> %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
