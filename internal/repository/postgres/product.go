package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/achieve-45/ProductCatalogService/internal/domain"
	"github.com/achieve-45/ProductCatalogService/pkg/database"
	apperrors "github.com/achieve-45/ProductCatalogService/pkg/errors"
)

const selectProducts = `
		SELECT p.id, p.name, p.description, p.price, p.image_url, p.created_at, p.updated_at,
		       c.id, c.name, c.description
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id`

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	db database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(db database.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID retrieves a product and its category by product id.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := selectProducts + `
		WHERE p.id = $1`

	ctx = database.WithOperation(ctx, "products.get")

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List returns every product ordered by id.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := selectProducts + `
		ORDER BY p.id`

	ctx = database.WithOperation(ctx, "products.list")

	return r.queryProducts(ctx, query)
}

// SearchByName returns products whose name contains query, ignoring case.
// LIKE wildcards in query are matched literally.
func (r *ProductRepository) SearchByName(ctx context.Context, query string) ([]domain.Product, error) {
	stmt := selectProducts + `
		WHERE p.name ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY p.id`

	ctx = database.WithOperation(ctx, "products.search")

	return r.queryProducts(ctx, stmt, escapeLike(query))
}

// Create inserts p, resolving its category inside the same transaction. The
// stored price is read back so p matches what a later GetByID returns.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, image_url, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, price, created_at, updated_at`

	ctx = database.WithOperation(ctx, "products.create")

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create product: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	categoryID, err := resolveCategory(ctx, tx, p.Category)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		p.ImageURL,
		categoryID,
	).Scan(&p.ID, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create product: %w", err)
	}
	if categoryID == nil {
		p.Category = nil
	}
	return nil
}

// Update replaces the mutable fields of the product with p.ID. The id and
// creation time are left untouched.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, image_url = $4, category_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING price, created_at, updated_at`

	ctx = database.WithOperation(ctx, "products.update")

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update product: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	categoryID, err := resolveCategory(ctx, tx, p.Category)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, query,
		p.Name,
		p.Description,
		p.Price,
		p.ImageURL,
		categoryID,
		p.ID,
	).Scan(&p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("product", strconv.FormatInt(p.ID, 10))
		}
		return fmt.Errorf("update product: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update product: %w", err)
	}
	if categoryID == nil {
		p.Category = nil
	}
	return nil
}

// resolveCategory returns the id to store in products.category_id. A category
// with an id must already exist; one with only a name is fetched or created
// by that name. The resolved row is copied back into c.
func resolveCategory(ctx context.Context, tx pgx.Tx, c *domain.Category) (*int64, error) {
	if c.IsZero() {
		return nil, nil
	}

	var description *string
	if c.ID != 0 {
		err := tx.QueryRow(ctx,
			`SELECT id, name, description FROM categories WHERE id = $1`, c.ID,
		).Scan(&c.ID, &c.Name, &description)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.InvalidInput(fmt.Sprintf("category %d does not exist", c.ID))
			}
			return nil, fmt.Errorf("get category: %w", err)
		}
	} else {
		// The no-op update makes RETURNING yield the row on conflict.
		err := tx.QueryRow(ctx, `
			INSERT INTO categories (name, description)
			VALUES ($1, NULLIF($2, ''))
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id, name, description`,
			c.Name, c.Description,
		).Scan(&c.ID, &c.Name, &description)
		if err != nil {
			return nil, fmt.Errorf("upsert category: %w", err)
		}
	}

	c.Description = deref(description)
	id := c.ID
	return &id, nil
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

// scanProduct reads one row produced by selectProducts. The category columns
// come from a LEFT JOIN and are all NULL for uncategorised products.
func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p            domain.Product
		description  *string
		imageURL     *string
		categoryID   *int64
		categoryName *string
		categoryDesc *string
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.Price,
		&imageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
		&categoryID,
		&categoryName,
		&categoryDesc,
	)
	if err != nil {
		return nil, err
	}

	p.Description = deref(description)
	p.ImageURL = deref(imageURL)
	if categoryID != nil {
		p.Category = &domain.Category{
			ID:          *categoryID,
			Name:        deref(categoryName),
			Description: deref(categoryDesc),
		}
	}
	return &p, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
