package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrLeadNotFound is returned by GetLead when no lead has the given id.
var ErrLeadNotFound = errors.New("lead not found")

// WriteError describes why a lead insert failed. It is only used for logging;
// callers outside the store see a single write failure.
type WriteError struct {
	Code       string // SQLSTATE when the database reported one
	Constraint string
	Err        error
}

func (e *WriteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("failed to create lead (sqlstate %s %s): %v", e.Code, e.Constraint, e.Err)
	}
	return fmt.Sprintf("failed to create lead: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure looks like a connection or capacity
// problem rather than a rejected row.
func (e *WriteError) Transient() bool {
	// Class 08 = connection exception, 53 = insufficient resources, 57 = operator intervention
	for _, class := range []string{"08", "53", "57"} {
		if strings.HasPrefix(e.Code, class) {
			return true
		}
	}
	return e.Code == ""
}

// ClassifyWriteError wraps err with any PostgreSQL details it carries.
func ClassifyWriteError(err error) *WriteError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &WriteError{
			Code:       pgErr.Code,
			Constraint: pgErr.ConstraintName,
			Err:        err,
		}
	}
	return &WriteError{Err: err}
}
