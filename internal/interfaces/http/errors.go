package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/localmart-api/internal/application/dto"
	"github.com/jhoicas/localmart-api/internal/domain"
)

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// errorTable orden de evaluación: el primer errors.Is que coincide gana.
var errorTable = []errorMapping{
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "credenciales inválidas"},
	{domain.ErrInvalidToken, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido o expirado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "no autorizado para esta operación"},
	{domain.ErrAccountPending, fiber.StatusForbidden, "ACCOUNT_PENDING", "la cuenta está pendiente de aprobación"},
	{domain.ErrAccountSuspended, fiber.StatusForbidden, "ACCOUNT_SUSPENDED", "la cuenta está suspendida"},
	{domain.ErrAccountRejected, fiber.StatusForbidden, "ACCOUNT_REJECTED", "la solicitud de cuenta fue rechazada"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"},
	{domain.ErrShopAlreadyExists, fiber.StatusConflict, "SHOP_EXISTS", "el usuario ya tiene una tienda"},
	{domain.ErrOrderAlreadyClaimed, fiber.StatusConflict, "ORDER_ALREADY_CLAIMED", "el pedido ya fue tomado por otro repartidor"},
	{domain.ErrTooLateToCancel, fiber.StatusConflict, "TOO_LATE_TO_CANCEL", "el pedido ya no se puede cancelar"},
	{domain.ErrAlreadyDecided, fiber.StatusConflict, "ALREADY_DECIDED", "la solicitud ya fue decidida"},
	{domain.ErrShopNotAvailable, fiber.StatusConflict, "SHOP_NOT_AVAILABLE", "la tienda no está recibiendo pedidos"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente"},
	{domain.ErrPriceMismatch, fiber.StatusConflict, "PRICE_MISMATCH", "el precio enviado no coincide con el catálogo"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
}

// respondError traduce errores de dominio a {code, message}. Lo desconocido es 500 sin detalle.
func respondError(c *fiber.Ctx, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: ve.Field + ": " + ve.Message, Field: ve.Field,
		})
	}
	var te *domain.TransitionError
	if errors.As(err, &te) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:      "INVALID_TRANSITION",
			Message:   "transición no permitida: " + te.From + " → " + te.To,
			Current:   te.From,
			Attempted: te.To,
		})
	}
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: m.message})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler para fiber.Config: rutas inexistentes, métodos no permitidos y panics recuperados.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			code = "BODY_TOO_LARGE"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}
