package service

import (
	"context"

	"github.com/achieve-45/ProductCatalogService/internal/domain"
)

// ProductService is implemented by both catalog backends. Absent products
// are reported with an error matching apperrors.ErrNotFound.
type ProductService interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	// Replace overwrites the product with id; the id in p is ignored.
	Replace(ctx context.Context, id int64, p *domain.Product) (*domain.Product, error)
	// GetByUserRole returns the product only when the user service knows
	// userID. Every lookup failure reads as not found.
	GetByUserRole(ctx context.Context, userID, productID int64) (*domain.Product, error)
}

// EventPublisher announces catalog changes. *event.Producer and
// event.NopProducer satisfy it.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, p *domain.Product) error
	PublishProductUpdated(ctx context.Context, p *domain.Product) error
}

// UserLookup fetches users from the user service.
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}
