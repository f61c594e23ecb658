package adjustment

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isOpenConflict reports whether the insert lost the race against
// another open adjustment for the same leave request. The partial
// unique index uq_leave_adjustments_open backs the HasOpenForRequest
// precondition; losing the race is treated like failing the check.
func isOpenConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_leave_adjustments_open"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_leave_adjustments_open")
}
