// Package pgerr maps PostgreSQL error codes onto the shared sentinel errors.
package pgerr

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gatherly/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
	notNullViolation    = "23502"
	invalidTextRep      = "22P02"
	invalidDatetime     = "22007"
	datetimeOverflow    = "22008"
)

// Wrap classifies err. Constraint and input errors become
// common.ErrAlreadyExists or common.ErrValidation with the server message
// attached; anything else is wrapped as a plain db error.
func Wrap(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrAlreadyExists, pgErr.Message)
		case foreignKeyViolation, checkViolation, notNullViolation,
			invalidTextRep, invalidDatetime, datetimeOverflow:
			return fmt.Errorf("%w: %s", common.ErrValidation, pgErr.Message)
		}
	}
	return fmt.Errorf("db error: %w", err)
}
