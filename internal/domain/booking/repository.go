package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
)

// BookingRepository defines the persistence contract for booking aggregates.
// The list queries apply the state filter at the storage level, ordered by
// start date descending, except CURRENT which is ordered ascending.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByBookerID retrieves a page of bookings requested by the given
	// user, narrowed by the state filter evaluated against now.
	FindByBookerID(ctx context.Context, bookerID uuid.UUID, filter StateFilter, now time.Time, page domain.PageQuery) ([]*Booking, error)

	// FindByOwnerID retrieves a page of bookings whose item belongs to the
	// given owner, narrowed by the state filter evaluated against now.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, filter StateFilter, now time.Time, page domain.PageQuery) ([]*Booking, error)

	// FindByItemID retrieves all bookings for an item ordered by start date
	// descending. Used by the last/next projection.
	FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*Booking, error)

	// FindByBookerAndItem retrieves all bookings a user made for an item,
	// ordered by start date descending.
	FindByBookerAndItem(ctx context.Context, bookerID, itemID uuid.UUID) ([]*Booking, error)

	// Save persists a new booking.
	Save(ctx context.Context, bk *Booking) error

	// Update persists changes to an existing booking with optimistic
	// locking; a version mismatch surfaces as a conflict.
	Update(ctx context.Context, bk *Booking) error
}
