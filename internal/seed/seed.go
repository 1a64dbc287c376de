// Package seed generates a deterministic demo catalog and loads it through the
// product repository.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/achieve-45/ProductCatalogService/internal/domain"
)

// Creator is the part of the product repository the loader needs.
type Creator interface {
	Create(ctx context.Context, p *domain.Product) error
}

type categoryDef struct {
	Name        string
	Description string
	Weight      float64 // share of generated products, sums to 1.0
	Types       []string
}

var categories = []categoryDef{
	{"Electronics", "Phones, laptops and accessories", 0.30, []string{"Smartphone", "Laptop", "Headphones", "Monitor", "Charger"}},
	{"Jewelery", "Rings, necklaces and bracelets", 0.15, []string{"Ring", "Necklace", "Bracelet", "Earrings"}},
	{"Men's Clothing", "", 0.25, []string{"Jacket", "T-Shirt", "Shirt", "Jeans"}},
	{"Women's Clothing", "", 0.30, []string{"Dress", "Coat", "Blouse", "Skirt"}},
}

var prefixes = []string{
	"Classic", "Slim", "Premium", "Everyday", "Vintage",
	"Compact", "Wireless", "Lightweight", "Waterproof", "Organic",
}

var colors = []string{
	"Black", "Navy", "White", "Grey", "Olive",
	"Burgundy", "Silver", "Gold", "Sand", "Teal",
}

var descriptionTemplates = []string{
	"A dependable %s for daily use.",
	"%s built from durable materials with a clean finish.",
	"Our best selling %s, now in new colours.",
	"",
}

// Generate returns count products spread over the demo categories by weight.
// The same seed always yields the same catalog.
func Generate(count int, seed uint64) []domain.Product {
	if count <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) // #nosec G404 -- demo data

	products := make([]domain.Product, 0, count)
	remaining := count
	for i, c := range categories {
		n := int(float64(count) * c.Weight)
		if i == len(categories)-1 {
			n = remaining
		}
		remaining -= n

		for j := 0; j < n; j++ {
			productType := c.Types[j%len(c.Types)]
			name := fmt.Sprintf("%s %s - %s",
				prefixes[rng.IntN(len(prefixes))],
				productType,
				colors[rng.IntN(len(colors))],
			)

			desc := descriptionTemplates[rng.IntN(len(descriptionTemplates))]
			if desc != "" {
				desc = fmt.Sprintf(desc, productType)
			}

			// 4.99 to 1999.99, whole dollars minus a cent.
			price := decimal.NewFromInt(int64(5 + rng.IntN(1995))).Sub(decimal.New(1, -2))

			products = append(products, domain.Product{
				Name:        name,
				Description: desc,
				Price:       price,
				ImageURL:    fmt.Sprintf("https://cdn.example.com/products/%d.png", len(products)+1),
				Category:    &domain.Category{Name: c.Name, Description: c.Description},
			})
		}
	}
	return products
}

// Load creates every product through repo, stopping at the first failure.
// Categories are created on first use by name.
func Load(ctx context.Context, repo Creator, products []domain.Product, logger *slog.Logger) (int, error) {
	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			return i, fmt.Errorf("seed product %q: %w", products[i].Name, err)
		}
		if (i+1)%500 == 0 {
			logger.Info("seed progress", slog.Int("created", i+1), slog.Int("total", len(products)))
		}
	}
	return len(products), nil
}
