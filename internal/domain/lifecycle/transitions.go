// Package lifecycle contiene la máquina de estados del pedido y las reglas de quién puede moverla.
// Todas las entradas (endpoints explícitos y el PATCH genérico) pasan por Authorize.
package lifecycle

import (
	"github.com/jhoicas/localmart-api/internal/domain"
	"github.com/jhoicas/localmart-api/internal/domain/entity"
)

// Estados del pedido.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusPickedUp  = "picked_up"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// AllowedTransitions grafo de estados; solo avanza, delivered y cancelled son terminales.
var AllowedTransitions = map[string][]string{
	StatusPending:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusPickedUp},
	StatusPickedUp:  {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

var allowedTransitionSet = buildTransitionSet(AllowedTransitions)

func buildTransitionSet(transitions map[string][]string) map[string]map[string]struct{} {
	set := make(map[string]map[string]struct{}, len(transitions))
	for from, tos := range transitions {
		next := make(map[string]struct{}, len(tos))
		for _, to := range tos {
			next[to] = struct{}{}
		}
		set[from] = next
	}
	return set
}

// CanTransition indica si el par (from, to) es una arista del grafo.
func CanTransition(from, to string) bool {
	next, ok := allowedTransitionSet[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// IsKnown indica si s es un estado del grafo.
func IsKnown(s string) bool {
	_, ok := allowedTransitionSet[s]
	return ok
}

// IsTerminal delivered y cancelled no tienen salida.
func IsTerminal(s string) bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsCancellable pending, accepted y preparing.
func IsCancellable(s string) bool {
	return CanTransition(s, StatusCancelled)
}

// Actor quien pide la transición.
type Actor struct {
	UserID string
	Role   string
}

// Authorize valida que actor pueda llevar order a target.
// Primero la autorización (ErrForbidden), después la regla de la máquina de estados.
// shopOwnerID es el dueño de la tienda del pedido.
func Authorize(actor Actor, order *entity.Order, shopOwnerID, target string) error {
	if order == nil {
		return domain.ErrNotFound
	}
	from := order.Status
	if !IsKnown(target) || target == StatusPending {
		return &domain.TransitionError{From: from, To: target}
	}

	isOwner := actor.Role == entity.RoleShopkeeper && actor.UserID != "" && actor.UserID == shopOwnerID

	switch target {
	case StatusAccepted, StatusPreparing, StatusReady:
		if !isOwner {
			return domain.ErrForbidden
		}
	case StatusPickedUp:
		if actor.Role != entity.RoleCourier {
			return domain.ErrForbidden
		}
		if order.HasCourier() {
			if *order.CourierID != actor.UserID {
				return domain.ErrOrderAlreadyClaimed
			}
			return &domain.TransitionError{From: from, To: target}
		}
	case StatusDelivered:
		if actor.Role != entity.RoleCourier || !order.HasCourier() || *order.CourierID != actor.UserID {
			return domain.ErrForbidden
		}
	case StatusCancelled:
		isCustomer := actor.Role == entity.RoleCustomer && actor.UserID == order.CustomerID
		if !isCustomer && !isOwner {
			return domain.ErrForbidden
		}
		if from == StatusCancelled {
			return &domain.TransitionError{From: from, To: target}
		}
		if !IsCancellable(from) {
			return domain.ErrTooLateToCancel
		}
	}

	if !CanTransition(from, target) {
		return &domain.TransitionError{From: from, To: target}
	}
	return nil
}
