// Package fakestore talks to a FakeStore-style upstream product API.
package fakestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/achieve-45/ProductCatalogService/pkg/httpclient"
)

const serviceName = "fakestore"

// maxBody caps how much of a successful upstream response is decoded.
const maxBody = 4 << 20

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Product is the upstream wire shape. Category is a bare name.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

// Client calls the upstream product endpoints under baseURL.
type Client struct {
	http    HTTPDoer
	baseURL string
}

// NewClient creates an upstream client. baseURL is the API root, e.g.
// https://fakestoreapi.com.
func NewClient(doer HTTPDoer, baseURL string) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GetProduct fetches one product. It returns nil and no error when the
// upstream has no such product, which it signals either with a 404 or with
// an empty or null body.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var p *Product
	found, err := c.call(ctx, http.MethodGet, c.productURL(id), nil, &p)
	if err != nil || !found {
		return nil, err
	}
	return p, nil
}

// ListProducts fetches every upstream product.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if _, err := c.call(ctx, http.MethodGet, c.baseURL+"/products", nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// UpdateProduct replaces the product with id and returns the upstream's
// view of it. A nil result means the upstream has no such product.
func (c *Client) UpdateProduct(ctx context.Context, id int64, p Product) (*Product, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal upstream product: %w", err)
	}

	var updated *Product
	found, err := c.call(ctx, http.MethodPut, c.productURL(id), body, &updated)
	if err != nil || !found {
		return nil, err
	}
	return updated, nil
}

func (c *Client) productURL(id int64) string {
	return c.baseURL + "/products/" + strconv.FormatInt(id, 10)
}

// call performs one request and decodes a 2xx body into out. It reports
// found=false for a 404 or an empty or null body.
func (c *Client) call(ctx context.Context, method, url string, body []byte, out any) (found bool, err error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return false, fmt.Errorf("create %s request: %w", serviceName, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return false, fmt.Errorf("%s %s %s: %w", serviceName, method, url, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return false, nil
	}
	if !httpclient.IsSuccess(resp.StatusCode) {
		return false, httpclient.ParseResponseError(resp, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return false, fmt.Errorf("read %s response: %w", serviceName, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s response: %w", serviceName, err)
	}
	return true, nil
}
