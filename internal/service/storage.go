package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/achieve-45/ProductCatalogService/internal/domain"
	"github.com/achieve-45/ProductCatalogService/internal/repository"
	apperrors "github.com/achieve-45/ProductCatalogService/pkg/errors"
)

// StorageProductService serves products from the relational repository.
type StorageProductService struct {
	repo     repository.ProductRepository
	users    UserLookup
	producer EventPublisher
	logger   *slog.Logger
}

// NewStorageProductService creates the storage-backed product service.
func NewStorageProductService(repo repository.ProductRepository, users UserLookup, producer EventPublisher, logger *slog.Logger) *StorageProductService {
	return &StorageProductService{
		repo:     repo,
		users:    users,
		producer: producer,
		logger:   logger,
	}
}

// GetByID retrieves a product by its id.
func (s *StorageProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores p and returns it with its assigned id and resolved category.
func (s *StorageProductService) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	p.ID = 0
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.producer.PublishProductCreated(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product created event",
			slog.Int64("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", p.ID),
		slog.String("name", p.Name),
	)
	return p, nil
}

// List returns every stored product.
func (s *StorageProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// Replace overwrites the stored product with id.
func (s *StorageProductService) Replace(ctx context.Context, id int64, p *domain.Product) (*domain.Product, error) {
	p.ID = id
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if err := s.producer.PublishProductUpdated(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "failed to publish product updated event",
			slog.Int64("product_id", p.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product replaced", slog.Int64("product_id", p.ID))
	return p, nil
}

// GetByUserRole fails closed: any problem reaching the user service, or an
// empty answer from it, hides the product.
func (s *StorageProductService) GetByUserRole(ctx context.Context, userID, productID int64) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "user lookup failed, hiding product",
			slog.Int64("user_id", userID),
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.NotFound("product", strconv.FormatInt(productID, 10))
	}
	if u.IsEmpty() {
		s.logger.DebugContext(ctx, "user service returned no user",
			slog.Int64("user_id", userID),
		)
		return nil, apperrors.NotFound("product", strconv.FormatInt(productID, 10))
	}

	return p, nil
}
