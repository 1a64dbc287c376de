package service

import (
	"context"
	"strings"

	"github.com/achieve-45/ProductCatalogService/internal/domain"
	"github.com/achieve-45/ProductCatalogService/internal/repository"
	apperrors "github.com/achieve-45/ProductCatalogService/pkg/errors"
)

// SearchService finds products by name in the relational repository,
// whichever product backend is active.
type SearchService struct {
	repo repository.ProductRepository
}

func NewSearchService(repo repository.ProductRepository) *SearchService {
	return &SearchService{repo: repo}
}

// Search returns products whose name contains query, ignoring case.
func (s *SearchService) Search(ctx context.Context, query string) ([]domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.InvalidInput("query is required")
	}
	return s.repo.SearchByName(ctx, query)
}
