package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/achieve-45/ProductCatalogService/internal/client/fakestore"
	"github.com/achieve-45/ProductCatalogService/internal/domain"
	apperrors "github.com/achieve-45/ProductCatalogService/pkg/errors"
)

// Upstream is the remote product API.
type Upstream interface {
	GetProduct(ctx context.Context, id int64) (*fakestore.Product, error)
	ListProducts(ctx context.Context) ([]fakestore.Product, error)
	UpdateProduct(ctx context.Context, id int64, p fakestore.Product) (*fakestore.Product, error)
}

// ProductCache holds upstream records by product id. Get returns nil on a
// miss.
type ProductCache interface {
	Get(ctx context.Context, id int64) (*fakestore.Product, error)
	Put(ctx context.Context, id int64, p *fakestore.Product) error
}

// RemoteProductService proxies the upstream product API, reading single
// products through an optional cache.
type RemoteProductService struct {
	upstream Upstream
	cache    ProductCache
	logger   *slog.Logger
}

// NewRemoteProductService creates the remote-backed product service. cache
// may be nil.
func NewRemoteProductService(upstream Upstream, cache ProductCache, logger *slog.Logger) *RemoteProductService {
	return &RemoteProductService{
		upstream: upstream,
		cache:    cache,
		logger:   logger,
	}
}

// GetByID serves from the cache when possible and fills it on a miss. Cache
// failures are logged and otherwise ignored.
func (s *RemoteProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "product cache read failed",
				slog.Int64("product_id", id),
				slog.String("error", err.Error()),
			)
		}
		if cached != nil {
			return fromUpstream(cached), nil
		}
	}

	record, err := s.upstream.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, id, record); err != nil {
			s.logger.WarnContext(ctx, "product cache write failed",
				slog.Int64("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}
	return fromUpstream(record), nil
}

// Create is not offered by the upstream integration.
func (s *RemoteProductService) Create(context.Context, *domain.Product) (*domain.Product, error) {
	return nil, apperrors.Unsupported("create product")
}

// List returns every upstream product.
func (s *RemoteProductService) List(ctx context.Context) ([]domain.Product, error) {
	records, err := s.upstream.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(records))
	for i := range records {
		products = append(products, *fromUpstream(&records[i]))
	}
	return products, nil
}

// Replace sends p to the upstream and returns its answer.
func (s *RemoteProductService) Replace(ctx context.Context, id int64, p *domain.Product) (*domain.Product, error) {
	record, err := s.upstream.UpdateProduct(ctx, id, toUpstream(id, p))
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.NotFound("product", strconv.FormatInt(id, 10))
	}
	return fromUpstream(record), nil
}

// GetByUserRole is never satisfied by the remote backend.
func (s *RemoteProductService) GetByUserRole(_ context.Context, _, productID int64) (*domain.Product, error) {
	return nil, apperrors.NotFound("product", strconv.FormatInt(productID, 10))
}

func fromUpstream(r *fakestore.Product) *domain.Product {
	p := &domain.Product{
		ID:          r.ID,
		Name:        r.Title,
		Description: r.Description,
		Price:       decimal.NewFromFloat(r.Price),
		ImageURL:    r.Image,
	}
	if r.Category != "" {
		p.Category = &domain.Category{Name: r.Category}
	}
	return p
}

func toUpstream(id int64, p *domain.Product) fakestore.Product {
	r := fakestore.Product{
		ID:          id,
		Title:       p.Name,
		Description: p.Description,
		Image:       p.ImageURL,
		Price:       p.Price.InexactFloat64(),
	}
	if p.Category != nil {
		r.Category = p.Category.Name
	}
	return r
}
