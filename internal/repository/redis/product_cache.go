package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/achieve-45/ProductCatalogService/internal/client/fakestore"
)

// DefaultNamespace is the hash holding cached upstream products.
const DefaultNamespace = "PRODUCTS__"

var cacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "catalog",
		Name:      "product_cache_lookups_total",
		Help:      "Product cache lookups by result (hit, miss, error)",
	},
	[]string{"result"},
)

// ProductCache stores upstream product records in a single Redis hash, one
// field per product id. Entries never expire.
type ProductCache struct {
	client    redis.Cmdable
	namespace string
}

// NewProductCache binds a cache to namespace; an empty namespace falls back
// to DefaultNamespace.
func NewProductCache(client redis.Cmdable, namespace string) *ProductCache {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &ProductCache{client: client, namespace: namespace}
}

// Get returns the cached record for id, or nil when there is none.
func (c *ProductCache) Get(ctx context.Context, id int64) (*fakestore.Product, error) {
	data, err := c.client.HGet(ctx, c.namespace, field(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			cacheLookups.WithLabelValues("miss").Inc()
			return nil, nil
		}
		cacheLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("redis hget product %d: %w", id, err)
	}

	var p fakestore.Product
	if err := json.Unmarshal(data, &p); err != nil {
		cacheLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("unmarshal cached product %d: %w", id, err)
	}
	cacheLookups.WithLabelValues("hit").Inc()
	return &p, nil
}

// Put stores p under id, overwriting any previous entry.
func (c *ProductCache) Put(ctx context.Context, id int64, p *fakestore.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product %d: %w", id, err)
	}
	if err := c.client.HSet(ctx, c.namespace, field(id), data).Err(); err != nil {
		return fmt.Errorf("redis hset product %d: %w", id, err)
	}
	return nil
}

// Ping reports whether Redis answers.
func (c *ProductCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func field(id int64) string {
	return strconv.FormatInt(id, 10)
}
