// Package repository defines error types that are reused across multiple
// repositories. These values allow higher layers such as handlers to
// distinguish between a missing row, a write the database refused and a
// state change that is not allowed from the current state.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the referenced row does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// Per-entity not-found errors.  Each one matches ErrNotFound with errors.Is.
var (
	ErrListingNotFound = fmt.Errorf("listing %w", ErrNotFound)
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)
	ErrReviewNotFound  = fmt.Errorf("review %w", ErrNotFound)
)

// ErrConflict is returned when an update cannot be performed because of
// the current state of the row, such as confirming a canceled booking.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ConstraintViolation is a write rejected by a storage-level constraint
// (check, foreign key, uniqueness or enum) even though the candidate passed
// validation.  It is never retried.
type ConstraintViolation struct {
	Constraint string // duplicate, foreign_key, check or invalid_value
	Err        error
}

// Error implements the error interface.
func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint violation (%s): %v", e.Constraint, e.Err)
}

// Unwrap returns the driver error.
func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}

// MySQL server error numbers that signal a constraint violation.
const (
	erDupEntry              = 1062
	erRowIsReferenced       = 1451
	erNoReferencedRow       = 1452
	erDataTruncated         = 1265
	erTruncatedWrongValue   = 1366
	erCheckConstraintFailed = 3819
)

// translate converts driver errors into ConstraintViolation where the
// error number identifies one; other errors pass through unchanged.
func translate(err error) error {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return err
	}
	switch me.Number {
	case erDupEntry:
		return &ConstraintViolation{Constraint: "duplicate", Err: err}
	case erRowIsReferenced, erNoReferencedRow:
		return &ConstraintViolation{Constraint: "foreign_key", Err: err}
	case erCheckConstraintFailed:
		return &ConstraintViolation{Constraint: "check", Err: err}
	case erDataTruncated, erTruncatedWrongValue:
		return &ConstraintViolation{Constraint: "invalid_value", Err: err}
	}
	return err
}
