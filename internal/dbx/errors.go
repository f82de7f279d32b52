package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ark/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// integrityViolationClass is the SQLSTATE class of unique, foreign key,
// not-null and check violations.
const integrityViolationClass = "23"

// TranslateError maps a driver error onto the error kinds of package common:
// a missing row becomes common.ErrorNotFound, an integrity violation becomes
// common.ErrorConflict, anything else stays a system error. The original
// error remains in the chain.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", common.ErrorNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && pgErr.Code[:2] == integrityViolationClass {
		msg := pgErr.Message
		if pgErr.Detail != "" {
			msg = pgErr.Detail
		}
		return fmt.Errorf("%w: %s: %w", common.ErrorConflict, msg, err)
	}

	return fmt.Errorf("db error: %w", err)
}
