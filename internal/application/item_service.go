package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shareloop/service-sharing/internal/domain"
	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
)

// ItemDetailCache is a read-through cache for item detail views. Get returns
// (nil, nil) on a miss. Satisfied by *cache.ItemDetailCache.
type ItemDetailCache interface {
	Get(ctx context.Context, itemID uuid.UUID, ownerView bool) (*ItemDetailView, error)
	Set(ctx context.Context, itemID uuid.UUID, ownerView bool, detail *ItemDetailView) error
	Invalidate(ctx context.Context, itemID uuid.UUID) error
}

// CreateItemRequest holds the data needed to list an item.
type CreateItemRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Available   *bool      `json:"available" binding:"required"`
	RequestID   *uuid.UUID `json:"request_id"`
}

// UpdateItemRequest holds a partial update of an item listing.
type UpdateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

// AddCommentRequest holds a comment to post on an item.
type AddCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ItemDTO is the response representation of an item listing.
type ItemDTO struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Available   bool       `json:"available"`
	RequestID   *uuid.UUID `json:"request_id,omitempty"`
}

// BookingRef is the short booking reference embedded in an item detail view.
type BookingRef struct {
	ID       uuid.UUID `json:"id"`
	BookerID uuid.UUID `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// CommentView is the response representation of an item comment.
type CommentView struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

// ItemDetailView is an item with its comments and, for the owner, the
// nearest bookings on each side of now.
type ItemDetailView struct {
	ItemDTO
	LastBooking *BookingRef   `json:"last_booking,omitempty"`
	NextBooking *BookingRef   `json:"next_booking,omitempty"`
	Comments    []CommentView `json:"comments"`
}

// ItemService handles item listing use cases: CRUD, search, the detail view
// with its last/next booking projection, and comments.
type ItemService struct {
	items    itemDomain.ItemRepository
	comments itemDomain.CommentRepository
	bookings bookingDomain.BookingRepository
	users    userDomain.UserRepository
	cache    ItemDetailCache
	clock    domain.Clock
	logger   *zap.Logger
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.ItemRepository,
	comments itemDomain.CommentRepository,
	bookings bookingDomain.BookingRepository,
	users userDomain.UserRepository,
	cache ItemDetailCache,
	clock domain.Clock,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		comments: comments,
		bookings: bookings,
		users:    users,
		cache:    cache,
		clock:    clock,
		logger:   logger,
	}
}

// CreateItem lists a new item for the given owner.
func (s *ItemService) CreateItem(ctx context.Context, ownerID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	it, err := itemDomain.NewItem(ownerID, req.Name, req.Description, *req.Available, req.RequestID, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to save item: %w", err)
	}

	s.logger.Info("item listed",
		zap.String("item_id", it.ID().String()),
		zap.String("owner_id", ownerID.String()),
	)

	dto := toItemDTO(it)
	return &dto, nil
}

// UpdateItem applies a partial update. Only the owner may edit a listing;
// anyone else gets a not-found error, matching the read-side masking.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(ownerID) {
		return nil, domain.NewNotFoundError("Item of user", itemID.String())
	}

	it.Update(req.Name, req.Description, req.Available, s.clock.Now())
	if err := s.items.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.invalidate(ctx, itemID)

	dto := toItemDTO(it)
	return &dto, nil
}

// GetItem returns the detail view of an item. The last/next booking
// projection is only computed when the requester owns the item.
func (s *ItemService) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*ItemDetailView, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	ownerView := it.IsOwnedBy(userID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, itemID, ownerView)
		if err != nil {
			s.logger.Warn("item detail cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	detail, err := s.buildDetail(ctx, it, ownerView)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, itemID, ownerView, detail); err != nil {
			s.logger.Warn("item detail cache write failed", zap.Error(err))
		}
	}
	return detail, nil
}

// ListItems returns a page of the owner's listings, each with its detail
// view. Pages follow the same floor-division scheme as the booking lists.
func (s *ItemService) ListItems(ctx context.Context, ownerID uuid.UUID, from, size int) ([]ItemDetailView, error) {
	if err := s.checkUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := checkPageParams(from, size); err != nil {
		return nil, err
	}

	items, err := s.items.FindByOwnerID(ctx, ownerID, domain.PageOf(from, size))
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	details := make([]ItemDetailView, len(items))
	for i, it := range items {
		detail, err := s.buildDetail(ctx, it, true)
		if err != nil {
			return nil, err
		}
		details[i] = *detail
	}
	return details, nil
}

// SearchItems returns a page of available items matching the text. Blank
// text yields an empty result, never an error.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]ItemDTO, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}
	if err := checkPageParams(from, size); err != nil {
		return nil, err
	}

	items, err := s.items.Search(ctx, text, domain.PageOf(from, size))
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}

	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it)
	}
	return dtos, nil
}

// AddComment posts a comment on an item. The author must have at least one
// booking of the item that has already ended.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID uuid.UUID, req AddCommentRequest) (*CommentView, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	history, err := s.bookings.FindByBookerAndItem(ctx, authorID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking history: %w", err)
	}
	if len(history) == 0 {
		return nil, domain.NewValidationError("user has never booked this item")
	}

	now := s.clock.Now()
	finished := false
	for _, bk := range history {
		if bk.End().Before(now) {
			finished = true
			break
		}
	}
	if !finished {
		return nil, domain.NewValidationError("user's booking of this item has not finished yet")
	}

	comment, err := itemDomain.NewComment(it.ID(), authorID, req.Text, now)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	s.invalidate(ctx, itemID)

	return &CommentView{
		ID:         comment.ID(),
		Text:       comment.Text(),
		AuthorName: author.Name(),
		Created:    comment.Created(),
	}, nil
}

// --- Helpers ---

func (s *ItemService) checkUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user: %w", err)
	}
	if !exists {
		return domain.NewNotFoundError("User", userID.String())
	}
	return nil
}

func (s *ItemService) buildDetail(ctx context.Context, it *itemDomain.Item, ownerView bool) (*ItemDetailView, error) {
	detail := &ItemDetailView{
		ItemDTO:  toItemDTO(it),
		Comments: []CommentView{},
	}

	comments, err := s.comments.FindByItemID(ctx, it.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	authorsByID := make(map[uuid.UUID]*userDomain.User)
	for _, c := range comments {
		author, ok := authorsByID[c.AuthorID()]
		if !ok {
			author, err = s.users.FindByID(ctx, c.AuthorID())
			if err != nil {
				return nil, err
			}
			authorsByID[c.AuthorID()] = author
		}
		detail.Comments = append(detail.Comments, CommentView{
			ID:         c.ID(),
			Text:       c.Text(),
			AuthorName: author.Name(),
			Created:    c.Created(),
		})
	}

	if ownerView {
		last, next, err := s.lastAndNextBooking(ctx, it.ID())
		if err != nil {
			return nil, err
		}
		detail.LastBooking = last
		detail.NextBooking = next
	}
	return detail, nil
}

// lastAndNextBooking finds the nearest booking on each side of now. The
// bookings arrive ordered by start date descending with REJECTED ones
// skipped; every future booking overwrites next (so the nearest future start
// wins), and the first non-future booking becomes last and ends the scan. A
// booking further down the list is never considered once last is set.
func (s *ItemService) lastAndNextBooking(ctx context.Context, itemID uuid.UUID) (*BookingRef, *BookingRef, error) {
	bookings, err := s.bookings.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load item bookings: %w", err)
	}

	now := s.clock.Now()
	var last, next *BookingRef
	for _, bk := range bookings {
		if bk.Status() == bookingDomain.StatusRejected {
			continue
		}
		if bk.Start().After(now) {
			next = toBookingRef(bk)
		} else {
			last = toBookingRef(bk)
			break
		}
	}
	return last, next, nil
}

func toBookingRef(bk *bookingDomain.Booking) *BookingRef {
	return &BookingRef{
		ID:       bk.ID(),
		BookerID: bk.BookerID(),
		Start:    bk.Start(),
		End:      bk.End(),
	}
}

func toItemDTO(it *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID(),
		OwnerID:     it.OwnerID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
	}
}

func (s *ItemService) invalidate(ctx context.Context, itemID uuid.UUID) {
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
