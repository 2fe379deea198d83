package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shareloop/service-sharing/internal/domain"
	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
	"github.com/shareloop/service-sharing/internal/events"
)

// EventPublisher publishes integration events. Satisfied by *events.Producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event events.CloudEvent) error
}

// CreateBookingRequest holds the data needed to request a booking.
type CreateBookingRequest struct {
	ItemID uuid.UUID  `json:"item_id" binding:"required"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

// UserSummary is the booker embedded in a booking view.
type UserSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ItemSummary is the item embedded in a booking view.
type ItemSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BookingView is the response representation of a booking, with the item and
// booker denormalized so callers never need a second round trip.
type BookingView struct {
	ID     uuid.UUID   `json:"id"`
	Start  time.Time   `json:"start"`
	End    time.Time   `json:"end"`
	Status string      `json:"status"`
	Booker UserSummary `json:"booker"`
	Item   ItemSummary `json:"item"`
}

// BookingService orchestrates the booking lifecycle: creation, the owner's
// approve/reject response, and the state-filtered list queries for the two
// perspectives (as booker, as owner).
type BookingService struct {
	bookings bookingDomain.BookingRepository
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	cache    ItemDetailCache
	producer EventPublisher
	clock    domain.Clock
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	cache ItemDetailCache,
	producer EventPublisher,
	clock domain.Clock,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		cache:    cache,
		producer: producer,
		clock:    clock,
		logger:   logger,
	}
}

// Create requests a new booking of an item for the given user. The booking
// is persisted WAITING after the candidate passes validation. Overlap with
// existing approved bookings of the same item is intentionally not checked.
func (s *BookingService) Create(ctx context.Context, bookerID uuid.UUID, req CreateBookingRequest) (*BookingView, error) {
	booker, err := s.users.FindByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	candidate := bookingDomain.Candidate{
		BookerID:      bookerID,
		ItemID:        it.ID(),
		ItemOwnerID:   it.OwnerID(),
		ItemAvailable: it.Available(),
		Start:         req.Start,
		End:           req.End,
	}
	if err := bookingDomain.ValidateCandidate(candidate, now); err != nil {
		return nil, err
	}

	bk := bookingDomain.NewBooking(it.ID(), bookerID, *req.Start, *req.End, now)
	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.invalidateItemDetail(ctx, it.ID())
	s.publishEvent(ctx, events.BookingCreated, bk.ID().String(), events.BookingCreatedEvent{
		BookingID:  bk.ID(),
		ItemID:     it.ID(),
		OwnerID:    it.OwnerID(),
		BookerID:   bookerID,
		Start:      bk.Start(),
		End:        bk.End(),
		OccurredAt: now,
	})

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("item_id", it.ID().String()),
		zap.String("booker_id", bookerID.String()),
	)

	view := toBookingView(bk, it, booker)
	return &view, nil
}

// Respond records the item owner's decision on a WAITING booking. Approval
// of an already-approved booking is a conflict; rejection is idempotent.
func (s *BookingService) Respond(ctx context.Context, userID, bookingID uuid.UUID, approve bool) (*BookingView, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}

	if !it.IsOwnedBy(userID) {
		return nil, domain.NewForbiddenError(fmt.Sprintf("user %s does not own the booked item", userID))
	}

	now := s.clock.Now()
	if approve {
		if err := bk.Approve(now); err != nil {
			return nil, err
		}
	} else {
		bk.Reject(now)
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	booker, err := s.users.FindByID(ctx, bk.BookerID())
	if err != nil {
		return nil, err
	}

	eventType := events.BookingRejected
	if approve {
		eventType = events.BookingApproved
	}
	s.invalidateItemDetail(ctx, it.ID())
	s.publishEvent(ctx, eventType, bk.ID().String(), events.BookingDecidedEvent{
		BookingID:  bk.ID(),
		ItemID:     it.ID(),
		OwnerID:    it.OwnerID(),
		BookerID:   bk.BookerID(),
		Status:     bk.Status().String(),
		OccurredAt: now,
	})

	s.logger.Info("booking decided",
		zap.String("booking_id", bk.ID().String()),
		zap.String("status", bk.Status().String()),
	)

	view := toBookingView(bk, it, booker)
	return &view, nil
}

// GetByID returns a booking to its booker or the item's owner. Anyone else
// gets a not-found error so that booking ids cannot be probed for existence.
func (s *BookingService) GetByID(ctx context.Context, userID, bookingID uuid.UUID) (*BookingView, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, bk.ItemID())
	if err != nil {
		return nil, err
	}

	if !bk.IsBookedBy(userID) && !it.IsOwnedBy(userID) {
		return nil, domain.NewNotFoundError("Booking", bookingID.String())
	}

	booker, err := s.users.FindByID(ctx, bk.BookerID())
	if err != nil {
		return nil, err
	}

	view := toBookingView(bk, it, booker)
	return &view, nil
}

// ListByBooker returns a page of the user's own bookings narrowed by the
// state filter. Results are ordered by start date descending, except the
// CURRENT filter which is ascending.
func (s *BookingService) ListByBooker(ctx context.Context, userID uuid.UUID, state string, from, size int) ([]BookingView, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := checkPageParams(from, size); err != nil {
		return nil, err
	}

	filter, err := bookingDomain.ParseStateFilter(state)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindByBookerID(ctx, userID, filter, s.clock.Now(), domain.PageOf(from, size))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by booker: %w", err)
	}
	return s.toBookingViews(ctx, bookings)
}

// ListByOwner returns a page of the bookings made against the user's items,
// narrowed by the state filter. The user must have listed at least one item.
func (s *BookingService) ListByOwner(ctx context.Context, userID uuid.UUID, state string, from, size int) ([]BookingView, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := checkPageParams(from, size); err != nil {
		return nil, err
	}

	hasItems, err := s.items.ExistsByOwnerID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check owned items: %w", err)
	}
	if !hasItems {
		return nil, domain.NewNotFoundError("Items to share for user", userID.String())
	}

	filter, err := bookingDomain.ParseStateFilter(state)
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.FindByOwnerID(ctx, userID, filter, s.clock.Now(), domain.PageOf(from, size))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by owner: %w", err)
	}
	return s.toBookingViews(ctx, bookings)
}

// --- Helpers ---

func (s *BookingService) checkUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return domain.NewNotFoundError("User", userID.String())
	}
	return nil
}

func checkPageParams(from, size int) error {
	if from < 0 {
		return domain.NewValidationError("from must not be negative")
	}
	if size < 1 {
		return domain.NewValidationError("size must be positive")
	}
	return nil
}

// toBookingViews assembles views for a page of bookings, memoizing the item
// and user lookups since pages usually repeat both.
func (s *BookingService) toBookingViews(ctx context.Context, bookings []*bookingDomain.Booking) ([]BookingView, error) {
	itemsByID := make(map[uuid.UUID]*itemDomain.Item)
	usersByID := make(map[uuid.UUID]*userDomain.User)

	views := make([]BookingView, len(bookings))
	for i, bk := range bookings {
		it, ok := itemsByID[bk.ItemID()]
		if !ok {
			var err error
			it, err = s.items.FindByID(ctx, bk.ItemID())
			if err != nil {
				return nil, err
			}
			itemsByID[bk.ItemID()] = it
		}

		booker, ok := usersByID[bk.BookerID()]
		if !ok {
			var err error
			booker, err = s.users.FindByID(ctx, bk.BookerID())
			if err != nil {
				return nil, err
			}
			usersByID[bk.BookerID()] = booker
		}

		views[i] = toBookingView(bk, it, booker)
	}
	return views, nil
}

func toBookingView(bk *bookingDomain.Booking, it *itemDomain.Item, booker *userDomain.User) BookingView {
	return BookingView{
		ID:     bk.ID(),
		Start:  bk.Start(),
		End:    bk.End(),
		Status: bk.Status().String(),
		Booker: UserSummary{ID: booker.ID(), Name: booker.Name()},
		Item:   ItemSummary{ID: it.ID(), Name: it.Name()},
	}
}

func (s *BookingService) invalidateItemDetail(ctx context.Context, itemID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, itemID); err != nil {
		s.logger.Warn("failed to invalidate item detail cache",
			zap.String("item_id", itemID.String()),
			zap.Error(err),
		)
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	if s.producer == nil {
		return
	}
	ce, err := events.NewCloudEvent("service-sharing", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicBookingEvents, key, ce); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
