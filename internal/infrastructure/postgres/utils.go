package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código de PostgreSQL para violación de unicidad. Aquí solo puede dispararlo
// el índice único de silos.numero.
const codeUniqueViolation = "23505"

// isUniqueViolation indica si el error es una violación de clave única.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
