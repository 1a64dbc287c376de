package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/achieve-45/ProductCatalogService/internal/domain"
	"github.com/achieve-45/ProductCatalogService/pkg/httputil"
	"github.com/achieve-45/ProductCatalogService/pkg/validator"
)

// Searcher finds products by name. *service.SearchService satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

// SearchHandler handles POST /search.
type SearchHandler struct {
	searcher Searcher
	logger   *slog.Logger
}

func NewSearchHandler(searcher Searcher, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{searcher: searcher, logger: logger}
}

// Search handles POST /search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products, err := h.searcher.Search(r.Context(), req.Query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProductDtos(products))
}
