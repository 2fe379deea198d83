package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shareloop/service-sharing/internal/domain"
	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StartDate time.Time `gorm:"not null;index"`
	EndDate   time.Time `gorm:"not null"`
	ItemID    uuid.UUID `gorm:"type:uuid;index;not null"`
	BookerID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Status    string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByBookerID retrieves a state-filtered page of a user's own bookings.
func (r *GormBookingRepository) FindByBookerID(ctx context.Context, bookerID uuid.UUID, filter bookingDomain.StateFilter, now time.Time, page domain.PageQuery) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).Where("booker_id = ?", bookerID)
	q = applyStateFilter(q, filter, now, "")

	var models []BookingModel
	if err := q.Order(orderForFilter(filter, "")).
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by booker: %w", err)
	}
	return toDomainBookings(models)
}

// FindByOwnerID retrieves a state-filtered page of the bookings made against
// the owner's items.
func (r *GormBookingRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, filter bookingDomain.StateFilter, now time.Time, page domain.PageQuery) ([]*bookingDomain.Booking, error) {
	q := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID)
	q = applyStateFilter(q, filter, now, "bookings.")

	var models []BookingModel
	if err := q.Order(orderForFilter(filter, "bookings.")).
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by owner: %w", err)
	}
	return toDomainBookings(models)
}

// FindByItemID retrieves all of an item's bookings, start date descending.
func (r *GormBookingRepository) FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("start_date DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by item: %w", err)
	}
	return toDomainBookings(models)
}

// FindByBookerAndItem retrieves a user's bookings of one item, start date
// descending.
func (r *GormBookingRepository) FindByBookerAndItem(ctx context.Context, bookerID, itemID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("booker_id = ? AND item_id = ?", bookerID, itemID).
		Order("start_date DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings by booker and item: %w", err)
	}
	return toDomainBookings(models)
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	if err := r.db.WithContext(ctx).Create(toBookingModel(bk)).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists a status change with optimistic locking. The version
// column serializes concurrent responses to the same booking, so a second
// approval cannot slip past the already-approved check.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// IncrementVersion was called before Update, so the row must still be
	// at the previous version.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// --- Query helpers ---

// applyStateFilter narrows the query per the filter. CURRENT/PAST/FUTURE
// compare the interval against now; WAITING/REJECTED compare the status;
// ALL adds nothing. The column prefix disambiguates joined queries.
func applyStateFilter(q *gorm.DB, filter bookingDomain.StateFilter, now time.Time, prefix string) *gorm.DB {
	switch filter {
	case bookingDomain.FilterCurrent:
		return q.Where(prefix+"start_date <= ? AND "+prefix+"end_date > ?", now, now)
	case bookingDomain.FilterPast:
		return q.Where(prefix+"end_date <= ?", now)
	case bookingDomain.FilterFuture:
		return q.Where(prefix+"start_date > ?", now)
	case bookingDomain.FilterWaiting:
		return q.Where(prefix+"status = ?", bookingDomain.StatusWaiting.String())
	case bookingDomain.FilterRejected:
		return q.Where(prefix+"status = ?", bookingDomain.StatusRejected.String())
	default:
		return q
	}
}

// orderForFilter returns the sort order: start date descending everywhere
// except the CURRENT filter, which the legacy query surface sorts ascending.
func orderForFilter(filter bookingDomain.StateFilter, prefix string) string {
	if filter == bookingDomain.FilterCurrent {
		return prefix + "start_date ASC"
	}
	return prefix + "start_date DESC"
}

// --- Conversion helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		StartDate: bk.Start(),
		EndDate:   bk.End(),
		ItemID:    bk.ItemID(),
		BookerID:  bk.BookerID(),
		Status:    bk.Status().String(),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return bookingDomain.Reconstruct(
		m.ID,
		m.ItemID,
		m.BookerID,
		m.StartDate,
		m.EndDate,
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
