package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/achieve-45/ProductCatalogService/internal/service"
	apperrors "github.com/achieve-45/ProductCatalogService/pkg/errors"
	"github.com/achieve-45/ProductCatalogService/pkg/httputil"
	"github.com/achieve-45/ProductCatalogService/pkg/validator"
)

// CalledByHeader carries the diagnostic caller name on single-product reads.
const CalledByHeader = "Called-By"

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service  service.ProductService
	calledBy string
	logger   *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc service.ProductService, calledBy string, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  svc,
		calledBy: calledBy,
		logger:   logger,
	}
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProductDtos(products))
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set(CalledByHeader, h.calledBy)
	httputil.WriteJSON(w, http.StatusOK, toProductDto(product))
}

// GetProductForUser handles GET /products/{userId}/{productId}
func (h *ProductHandler) GetProductForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.ParseInt64("userId", chi.URLParam(r, "userId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	productID, err := httputil.ParseInt64("productId", chi.URLParam(r, "productId"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.service.GetByUserRole(r.Context(), userID, productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProductDto(product))
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductDto
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toProductDto(product))
}

// ReplaceProduct handles PUT /products/{id}
func (h *ProductHandler) ReplaceProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseProductID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req ProductDto
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Replace(r.Context(), id, req.toDomain())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toProductDto(product))
}

// parseProductID rejects ids that cannot name a product before any backend
// is consulted.
func parseProductID(param string) (int64, error) {
	id, err := httputil.ParseInt64("id", param)
	if err != nil {
		return 0, err
	}
	switch {
	case id == 0:
		return 0, apperrors.InvalidInput("id is invalid")
	case id < 0:
		return 0, apperrors.InvalidInput("id is out of allowed range")
	}
	return id, nil
}
