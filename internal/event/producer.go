package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/achieve-45/ProductCatalogService/internal/domain"
	pkgkafka "github.com/achieve-45/ProductCatalogService/pkg/kafka"
	"github.com/achieve-45/ProductCatalogService/pkg/logger"
)

// Kafka topics for catalog product events.
var (
	TopicProductCreated = pkgkafka.Topic("product", "created")
	TopicProductUpdated = pkgkafka.Topic("product", "updated")
)

const (
	AggregateTypeProduct = "product"
	SourceCatalogService = "product-catalog-service"
)

// ProductData is the payload of product.created and product.updated events.
type ProductData struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"image_url,omitempty"`
	CategoryID   *int64          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
}

// Publisher writes an envelope to a topic. *pkgkafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes catalog product events.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product)
}

func (p *Producer) publish(ctx context.Context, topic string, product *domain.Product) error {
	id := strconv.FormatInt(product.ID, 10)

	agg := pkgkafka.Aggregate{Type: AggregateTypeProduct, ID: id}
	event, err := pkgkafka.NewEvent(topic, SourceCatalogService, agg, newProductData(product))
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.CorrelationID = logger.CorrelationIDFromContext(ctx)

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.Int64("product_id", product.ID),
	)
	return nil
}

func newProductData(p *domain.Product) ProductData {
	data := ProductData{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
	}
	if p.Category != nil {
		if p.Category.ID != 0 {
			id := p.Category.ID
			data.CategoryID = &id
		}
		data.CategoryName = p.Category.Name
	}
	return data
}

// NopProducer drops every event. It stands in when Kafka is disabled.
type NopProducer struct{}

func (NopProducer) PublishProductCreated(context.Context, *domain.Product) error { return nil }
func (NopProducer) PublishProductUpdated(context.Context, *domain.Product) error { return nil }
