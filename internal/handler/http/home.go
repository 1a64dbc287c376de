package http

import (
	"net/http"

	"github.com/achieve-45/ProductCatalogService/pkg/httputil"
)

type homeResponse struct {
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

// Home handles GET /
func Home(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, homeResponse{
		Status:  "success",
		Message: "Product Catalog Service API is running",
		Endpoints: []string{
			"/products - Get all products",
			"/products/{id} - Get product by ID",
		},
	})
}
