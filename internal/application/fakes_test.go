package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
	bookingDomain "github.com/shareloop/service-sharing/internal/domain/booking"
	itemDomain "github.com/shareloop/service-sharing/internal/domain/item"
	userDomain "github.com/shareloop/service-sharing/internal/domain/user"
	"github.com/shareloop/service-sharing/internal/events"
)

// In-memory repository fakes mirroring the SQL implementations' filtering,
// ordering and paging behavior.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*userDomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*userDomain.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", id.String())
	}
	return u, nil
}

func (r *fakeUserRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*userDomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*userDomain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email() == u.Email() {
			return domain.NewConflictError("a user with this email already exists")
		}
	}
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *userDomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*itemDomain.Item
	order []uuid.UUID
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[uuid.UUID]*itemDomain.Item)}
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Item", id.String())
	}
	return it, nil
}

func (r *fakeItemRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID, page domain.PageQuery) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []*itemDomain.Item
	for _, id := range r.order {
		if r.items[id].IsOwnedBy(ownerID) {
			owned = append(owned, r.items[id])
		}
	}
	return paginate(owned, page), nil
}

func (r *fakeItemRepo) ExistsByOwnerID(_ context.Context, ownerID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.IsOwnedBy(ownerID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeItemRepo) Search(_ context.Context, text string, page domain.PageQuery) ([]*itemDomain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*itemDomain.Item
	for _, id := range r.order {
		it := r.items[id]
		if it.Available() && (containsFold(it.Name(), text) || containsFold(it.Description(), text)) {
			matched = append(matched, it)
		}
	}
	return paginate(matched, page), nil
}

func (r *fakeItemRepo) Save(_ context.Context, it *itemDomain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID()] = it
	r.order = append(r.order, it.ID())
	return nil
}

func (r *fakeItemRepo) Update(_ context.Context, it *itemDomain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[it.ID()] = it
	return nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	items    *fakeItemRepo
}

func newFakeBookingRepo(items *fakeItemRepo) *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking), items: items}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByBookerID(_ context.Context, bookerID uuid.UUID, filter bookingDomain.StateFilter, now time.Time, page domain.PageQuery) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.query(func(bk *bookingDomain.Booking) bool {
		return bk.BookerID() == bookerID
	}, filter, now, page), nil
}

func (r *fakeBookingRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID, filter bookingDomain.StateFilter, now time.Time, page domain.PageQuery) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.query(func(bk *bookingDomain.Booking) bool {
		it, ok := r.items.items[bk.ItemID()]
		return ok && it.IsOwnedBy(ownerID)
	}, filter, now, page), nil
}

func (r *fakeBookingRepo) FindByItemID(_ context.Context, itemID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.ItemID() == itemID {
			out = append(out, bk)
		}
	}
	sortByStartDesc(out)
	return out, nil
}

func (r *fakeBookingRepo) FindByBookerAndItem(_ context.Context, bookerID, itemID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.BookerID() == bookerID && bk.ItemID() == itemID {
			out = append(out, bk)
		}
	}
	sortByStartDesc(out)
	return out, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) query(match func(*bookingDomain.Booking) bool, filter bookingDomain.StateFilter, now time.Time, page domain.PageQuery) []*bookingDomain.Booking {
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if !match(bk) || !matchesFilter(bk, filter, now) {
			continue
		}
		out = append(out, bk)
	}
	if filter == bookingDomain.FilterCurrent {
		sort.Slice(out, func(i, j int) bool { return out[i].Start().Before(out[j].Start()) })
	} else {
		sortByStartDesc(out)
	}
	return paginate(out, page)
}

func matchesFilter(bk *bookingDomain.Booking, filter bookingDomain.StateFilter, now time.Time) bool {
	switch filter {
	case bookingDomain.FilterAll:
		return true
	case bookingDomain.FilterCurrent:
		return bk.State(now) == bookingDomain.StateCurrent
	case bookingDomain.FilterPast:
		return bk.State(now) == bookingDomain.StatePast
	case bookingDomain.FilterFuture:
		return bk.State(now) == bookingDomain.StateFuture
	case bookingDomain.FilterWaiting:
		return bk.Status() == bookingDomain.StatusWaiting
	case bookingDomain.FilterRejected:
		return bk.Status() == bookingDomain.StatusRejected
	}
	return false
}

func sortByStartDesc(bookings []*bookingDomain.Booking) {
	sort.Slice(bookings, func(i, j int) bool { return bookings[i].Start().After(bookings[j].Start()) })
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func paginate[T any](in []T, page domain.PageQuery) []T {
	if page.Offset >= len(in) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(in) {
		end = len(in)
	}
	return in[page.Offset:end]
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []*itemDomain.Comment
}

func (r *fakeCommentRepo) FindByItemID(_ context.Context, itemID uuid.UUID) ([]*itemDomain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*itemDomain.Comment
	for _, c := range r.comments {
		if c.ItemID() == itemID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Save(_ context.Context, c *itemDomain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, c)
	return nil
}

type cacheKey struct {
	itemID    uuid.UUID
	ownerView bool
}

type fakeCache struct {
	mu            sync.Mutex
	entries       map[cacheKey]*ItemDetailView
	hits          int
	invalidations int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[cacheKey]*ItemDetailView)}
}

func (c *fakeCache) Get(_ context.Context, itemID uuid.UUID, ownerView bool) (*ItemDetailView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	detail, ok := c.entries[cacheKey{itemID, ownerView}]
	if !ok {
		return nil, nil
	}
	c.hits++
	return detail, nil
}

func (c *fakeCache) Set(_ context.Context, itemID uuid.UUID, ownerView bool, detail *ItemDetailView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{itemID, ownerView}] = detail
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, itemID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey{itemID, true})
	delete(c.entries, cacheKey{itemID, false})
	c.invalidations++
	return nil
}

type publishedEvent struct {
	topic string
	key   string
	event events.CloudEvent
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic, key string, event events.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, key: key, event: event})
	return nil
}

func (p *fakePublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}
