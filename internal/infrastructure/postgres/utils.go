package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE relevantes.
const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeInvalidText     = "22P02" // p. ej. un id que no es UUID
)

// pgCode devuelve el SQLSTATE de un error de PostgreSQL ("" si no lo es).
func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

func isCheckViolation(err error) bool { return pgCode(err) == codeCheckViolation }

// isNoRow fila inexistente o id con formato inválido: ambos son "no encontrado" para el llamador.
func isNoRow(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || pgCode(err) == codeInvalidText
}
