package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/lanchonete-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// validID los IDs son UUID; cualquier otro valor no puede existir en la tabla.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// mapErr traduce errores de pgx a errores de dominio.
func mapErr(op, kind, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
	}
	if isUniqueViolation(err) {
		return domain.Persistence(op, fmt.Errorf("%s duplicado: %w", kind, err))
	}
	return domain.Persistence(op, err)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, kind, id)
}
