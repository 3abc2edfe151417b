package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"airsolutions/internal/core/apperror"
)

// SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsForeignKeyViolation reports a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// ConstraintName returns the violated constraint, if any.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// MapError converts driver errors into AppErrors for the given entity.
// Unknown errors are returned unchanged so callers can wrap them.
func MapError(err error, entity string, id any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperror.NewNotFound(entity, id)
	case IsUniqueViolation(err):
		return apperror.NewConflict(entity+" already exists").
			WithDetail("constraint", ConstraintName(err)).
			WithCause(err)
	case IsForeignKeyViolation(err):
		return apperror.NewConflict(entity+" is referenced by other records").
			WithDetail("constraint", ConstraintName(err)).
			WithCause(err)
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns free text into an ILIKE pattern matching it
// anywhere. Wildcards typed by the user match literally.
func ContainsPattern(search string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(search)) + "%"
}
