package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrDuplicateKey is returned when an insert violates a unique constraint.
var ErrDuplicateKey = errors.New("duplicate key")

const uniqueViolation pq.ErrorCode = "23505"

// translateError maps driver errors the services care about onto repository
// errors. Anything else is returned unchanged.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pqErr.Constraint)
	}
	return err
}
