package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/peervote/api/internal/core/domain"
)

const uniqueViolation = pq.ErrorCode("23505")

// mapError translates driver failures into the domain taxonomy. A
// uniqueness violation becomes a ConflictError with the driver message
// kept verbatim; everything else is a TransportError wrapping the
// original error.
func mapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.NewConflictError("%s", pqErr.Error())
	}
	return domain.NewTransportError(fmt.Errorf("%s: %w", op, err))
}
