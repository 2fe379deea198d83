package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
)

// Booking is the aggregate root for a time-bounded reservation of an item.
// A booking is created WAITING; the item owner then approves or rejects it.
type Booking struct {
	id        uuid.UUID
	start     time.Time
	end       time.Time
	itemID    uuid.UUID
	bookerID  uuid.UUID
	status    Status
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a WAITING booking. Date and availability rules are
// checked by ValidateCandidate before this is called.
func NewBooking(itemID, bookerID uuid.UUID, start, end, now time.Time) *Booking {
	return &Booking{
		id:        uuid.New(),
		start:     start,
		end:       end,
		itemID:    itemID,
		bookerID:  bookerID,
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id, itemID, bookerID uuid.UUID,
	start, end time.Time,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		start:     start,
		end:       end,
		itemID:    itemID,
		bookerID:  bookerID,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID        { return b.id }
func (b *Booking) Start() time.Time     { return b.start }
func (b *Booking) End() time.Time       { return b.end }
func (b *Booking) ItemID() uuid.UUID    { return b.itemID }
func (b *Booking) BookerID() uuid.UUID  { return b.bookerID }
func (b *Booking) Status() Status       { return b.status }
func (b *Booking) Version() int64       { return b.version }
func (b *Booking) CreatedAt() time.Time { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// IsBookedBy reports whether the given user requested this booking.
func (b *Booking) IsBookedBy(userID uuid.UUID) bool {
	return b.bookerID == userID
}

// Approve sets the status to APPROVED. Approving an already-approved booking
// is a conflict; any other prior status is overwritten.
func (b *Booking) Approve(now time.Time) error {
	if b.status == StatusApproved {
		return domain.NewConflictError("booking has already been approved")
	}
	b.status = StatusApproved
	b.updatedAt = now
	return nil
}

// Reject sets the status to REJECTED. Unlike Approve this is idempotent:
// rejecting an already-rejected booking succeeds.
func (b *Booking) Reject(now time.Time) {
	b.status = StatusRejected
	b.updatedAt = now
}

// State classifies the booking's interval against the reference time.
func (b *Booking) State(now time.Time) TimeState {
	return Classify(b.start, b.end, now)
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}
