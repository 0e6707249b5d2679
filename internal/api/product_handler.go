package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/catalog-api/internal/api/shared"
	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/service/catalog"
)

// NextCursorHeader carries the token that resumes a listing after the
// current page.
const NextCursorHeader = "X-Next-Cursor"

// ProductHandler handles product query HTTP requests
type ProductHandler struct {
	catalog catalog.Service
	limits  catalog.Limits
	logger  *slog.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(svc catalog.Service, limits catalog.Limits, logger *slog.Logger) *ProductHandler {
	if svc == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("catalog service cannot be nil for ProductHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProductHandler")
	}

	return &ProductHandler{
		catalog: svc,
		limits:  limits,
		logger:  logger.With(slog.String("component", "product_handler")),
	}
}

// RegisterRoutes mounts the product endpoints on r.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/search", h.SearchProducts)
	r.Get("/products/filter", h.FilterProducts)
	r.Get("/product/{productId}", h.GetProduct)
}

// ListProducts handles GET /products requests.
// It returns one page of products and, when the page is full, the cursor for
// the next page in the X-Next-Cursor header.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	params, err := catalog.ParseListParams(r.URL.Query(), h.limits)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	log.Debug("listing products",
		slog.String("category", params.Category),
		slog.String("sort_by", params.SortBy),
		slog.String("order", string(params.Order)),
		slog.Int("limit", params.Limit),
		slog.Int("page", params.Page),
		slog.Bool("cursor", params.Cursor != ""))

	page, err := h.catalog.ListProducts(r.Context(), params)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if page.NextCursor != "" {
		w.Header().Set(NextCursorHeader, page.NextCursor)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, productList(page.Products))
}

// GetProduct handles GET /product/{productId} requests.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productId")

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, product)
}

// SearchProducts handles GET /products/search requests.
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	params, err := catalog.ParseSearchParams(r.URL.Query())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	products, err := h.catalog.SearchProducts(r.Context(), params)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, productList(products))
}

// FilterProducts handles GET /products/filter requests.
func (h *ProductHandler) FilterProducts(w http.ResponseWriter, r *http.Request) {
	params := catalog.ParseFilterParams(r.URL.Query())

	products, err := h.catalog.FilterProducts(r.Context(), params)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, productList(products))
}

func (h *ProductHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// productList keeps empty results encoded as [] rather than null.
func productList(products []*domain.Product) []*domain.Product {
	if products == nil {
		return []*domain.Product{}
	}
	return products
}
