package repository

import (
	"context"

	"github.com/achieve-45/ProductCatalogService/internal/domain"
)

// ProductRepository is the relational store behind the storage backend and
// the search service. Lookups of absent rows return an error matching
// apperrors.ErrNotFound.
type ProductRepository interface {
	// GetByID returns the product with its category, if any.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// List returns every product ordered by id.
	List(ctx context.Context) ([]domain.Product, error)

	// Create inserts p, resolving its category, and fills in the assigned
	// id, timestamps and resolved category.
	Create(ctx context.Context, p *domain.Product) error

	// Update replaces every mutable field of the product with p.ID.
	Update(ctx context.Context, p *domain.Product) error

	// SearchByName returns products whose name contains query, ignoring case.
	SearchByName(ctx context.Context, query string) ([]domain.Product, error)
}
