package business

import "context"

// Repository persists businesses.
type Repository interface {
	Create(ctx context.Context, b *Business) error
	FindByPublicID(ctx context.Context, publicID string) (*Business, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Business, error)
}
