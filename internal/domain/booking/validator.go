package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
)

// Candidate carries everything needed to decide whether a proposed booking
// may be created. Existence of the booker and the item is checked by the
// caller when it resolves them from storage.
type Candidate struct {
	BookerID      uuid.UUID
	ItemID        uuid.UUID
	ItemOwnerID   uuid.UUID
	ItemAvailable bool
	Start         *time.Time
	End           *time.Time
}

// ValidateCandidate checks a proposed booking against the creation rules,
// failing fast on the first violation. The check order is part of the
// contract. No clock is read here; the caller supplies the reference time.
func ValidateCandidate(c Candidate, now time.Time) error {
	if c.BookerID == c.ItemOwnerID {
		return domain.NewForbiddenError("a user cannot book their own item")
	}
	if !c.ItemAvailable {
		return domain.NewConflictError(fmt.Sprintf("item %s is not available for booking", c.ItemID))
	}
	if c.Start == nil {
		return domain.NewValidationError("booking start date is required")
	}
	if c.End == nil {
		return domain.NewValidationError("booking end date is required")
	}
	if c.End.Before(now) {
		return domain.NewValidationError("booking end date cannot be in the past")
	}
	if c.Start.Before(now) {
		return domain.NewValidationError("booking start date cannot be in the past")
	}
	if c.Start.After(*c.End) {
		return domain.NewValidationError("booking end date cannot be before its start date")
	}
	if c.Start.Equal(*c.End) {
		return domain.NewValidationError("booking start date must differ from its end date")
	}
	return nil
}
