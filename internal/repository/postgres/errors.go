package postgres

import (
	"database/sql"
	"errors"

	ierr "github.com/devgate/monetize/internal/errors"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

// wrapDBError translates driver errors into domain error marks so the
// service layer can branch on ierr.IsNotFound and ierr.IsAlreadyExists.
func wrapDBError(err error, entity string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ierr.WithError(err).
			WithHintf("%s not found", entity).
			Mark(ierr.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return ierr.WithError(err).
			WithHintf("%s already exists", entity).
			Mark(ierr.ErrAlreadyExists)
	}

	return ierr.WithError(err).
		WithHintf("Failed to query %s", entity).
		Mark(ierr.ErrDatabase)
}

// requireRowsAffected turns a no-op update into a not found error
func requireRowsAffected(result sql.Result, entity string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to query %s", entity).
			Mark(ierr.ErrDatabase)
	}
	if n == 0 {
		return ierr.NewError(entity + " not found").
			WithHintf("%s not found", entity).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
