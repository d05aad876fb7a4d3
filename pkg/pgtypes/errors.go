package pgtypes

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Common lookup error types
var (
	// ErrNotFound is returned when a type is not in the registry.
	ErrNotFound = errors.New("type not found in registry")

	// ErrAmbiguousType is returned when the catalog holds more than one
	// type for what should be a unique name. This indicates a data
	// integrity problem and is never silently collapsed to "first wins".
	ErrAmbiguousType = errors.New("ambiguous type name")

	// ErrInvalidKey is returned when a registry key has an unsupported
	// shape. This is a usage error, distinct from a miss.
	ErrInvalidKey = errors.New("invalid registry key")
)

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAmbiguousType returns true if the error is ErrAmbiguousType
func IsAmbiguousType(err error) bool {
	return errors.Is(err, ErrAmbiguousType)
}

// undefinedObjectCode is the SQLSTATE raised by a failed ::regtype cast.
const undefinedObjectCode = "42704"

// isUndefinedObject reports whether err carries the catalog's
// undefined_object condition, for either the pgx or lib/pq driver.
func isUndefinedObject(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == undefinedObjectCode
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == undefinedObjectCode
	}

	return false
}
