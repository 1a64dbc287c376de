package http

import (
	"github.com/shopspring/decimal"

	"github.com/achieve-45/ProductCatalogService/internal/domain"
)

// CategoryDto is the wire form of a category. Zero fields are omitted.
type CategoryDto struct {
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProductDto is the wire form of a product, used for request and response
// bodies alike.
type ProductDto struct {
	ID          int64        `json:"id,omitempty"`
	Name        string       `json:"name,omitempty"`
	Description string       `json:"description,omitempty"`
	Price       *float64     `json:"price,omitempty" validate:"omitempty,gte=0"`
	ImageURL    string       `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Category    *CategoryDto `json:"category,omitempty"`
}

// SearchRequest is the body of POST /search. The paging hints are accepted
// but results are not paged.
type SearchRequest struct {
	Query      string `json:"query"`
	PageSize   *int   `json:"pageSize,omitempty" validate:"omitempty,gte=0"`
	PageNumber *int   `json:"pageNumber,omitempty" validate:"omitempty,gte=0"`
}

func toProductDto(p *domain.Product) ProductDto {
	price := p.Price.InexactFloat64()
	dto := ProductDto{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       &price,
		ImageURL:    p.ImageURL,
	}
	if p.Category != nil {
		dto.Category = &CategoryDto{
			ID:          p.Category.ID,
			Name:        p.Category.Name,
			Description: p.Category.Description,
		}
	}
	return dto
}

func toProductDtos(products []domain.Product) []ProductDto {
	out := make([]ProductDto, 0, len(products))
	for i := range products {
		out = append(out, toProductDto(&products[i]))
	}
	return out
}

func (d *ProductDto) toDomain() *domain.Product {
	p := &domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    d.ImageURL,
	}
	if d.Price != nil {
		p.Price = decimal.NewFromFloat(*d.Price)
	}
	if d.Category != nil {
		p.Category = &domain.Category{
			ID:          d.Category.ID,
			Name:        d.Category.Name,
			Description: d.Category.Description,
		}
	}
	return p
}
