package item

import (
	"context"

	"github.com/google/uuid"

	"github.com/shareloop/service-sharing/internal/domain"
)

// ItemRepository defines persistence operations for item listings.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// FindByOwnerID retrieves a page of the owner's items in listing order.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page domain.PageQuery) ([]*Item, error)

	// ExistsByOwnerID reports whether the user has listed at least one item.
	ExistsByOwnerID(ctx context.Context, ownerID uuid.UUID) (bool, error)

	// Search retrieves a page of available items whose name or description
	// matches the text, case-insensitively.
	Search(ctx context.Context, text string, page domain.PageQuery) ([]*Item, error)

	Save(ctx context.Context, it *Item) error
	Update(ctx context.Context, it *Item) error
}

// CommentRepository defines persistence operations for item comments.
type CommentRepository interface {
	FindByItemID(ctx context.Context, itemID uuid.UUID) ([]*Comment, error)
	Save(ctx context.Context, c *Comment) error
}
