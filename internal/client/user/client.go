// Package user looks up users in the external user service.
package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/achieve-45/ProductCatalogService/internal/domain"
	"github.com/achieve-45/ProductCatalogService/pkg/httpclient"
)

const serviceName = "user-service"

// HTTPDoer executes HTTP requests.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client calls GET {baseURL}/user/{id}.
type Client struct {
	http    HTTPDoer
	baseURL string
}

func NewClient(doer HTTPDoer, baseURL string) *Client {
	return &Client{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// GetUser returns the user with id. A 404 yields an error matching
// apperrors.ErrNotFound; an empty or null body yields a nil user.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	url := c.baseURL + "/user/" + strconv.FormatInt(id, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", serviceName, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if !httpclient.IsSuccess(resp.StatusCode) {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	var u *domain.User
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&u); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode %s response: %w", serviceName, err)
	}
	return u, nil
}
