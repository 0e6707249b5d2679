package catalog

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/phrazzld/catalog-api/internal/domain"
	"github.com/phrazzld/catalog-api/internal/platform/logger"
	"github.com/phrazzld/catalog-api/internal/store"
)

// ProductPage is one page of a product listing.
type ProductPage struct {
	Products []*domain.Product
	// NextCursor resumes the listing after the last product. It is set only
	// when the page is full.
	NextCursor string
}

// Service provides the catalog query operations.
type Service interface {
	// ListProducts returns one page of products, optionally restricted to a
	// category, ordered by SortBy then identifier.
	ListProducts(ctx context.Context, p ListParams) (*ProductPage, error)

	// GetProduct retrieves a product by its identifier.
	// Returns an error wrapping store.ErrProductNotFound if it does not exist.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)

	// SearchProducts returns products whose search keywords contain the term,
	// in identifier order.
	SearchProducts(ctx context.Context, p SearchParams) ([]*domain.Product, error)

	// FilterProducts returns products priced within the inclusive range,
	// optionally restricted to a brand, ordered ascending by Sort.
	FilterProducts(ctx context.Context, p FilterParams) ([]*domain.Product, error)
}

type catalogService struct {
	products store.ProductReader
	limits   Limits
	logger   *slog.Logger
}

// NewService creates a catalog Service reading from products.
// It returns an error if products is nil.
func NewService(products store.ProductReader, limits Limits, log *slog.Logger) (Service, error) {
	if products == nil {
		return nil, errors.New("products cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = DefaultLimits().DefaultLimit
	}

	return &catalogService{
		products: products,
		limits:   limits,
		logger:   log.With(slog.String("component", "catalog_service")),
	}, nil
}

// ListProducts implements Service.ListProducts.
//
// Without a cursor, page N>1 is located by first reading the (N-1)*limit
// records that precede it and resuming after the last of them. If that
// prefix is empty, no cursor applies. A page beyond the end of the data is
// therefore empty.
func (s *catalogService) ListProducts(ctx context.Context, p ListParams) (*ProductPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if p.Limit <= 0 {
		p.Limit = s.limits.DefaultLimit
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.SortBy == "" {
		p.SortBy = domain.FieldPrice
	}
	if p.Order == "" {
		p.Order = store.Ascending
	}

	base := store.ProductQuery{OrderBy: p.SortBy, Direction: p.Order}
	if p.Category != "" {
		base = base.Where(domain.FieldCategory, store.OpEqual, p.Category)
	}

	main := base
	main.Limit = p.Limit

	switch {
	case p.Cursor != "":
		cursor, err := decodeCursor(p.Cursor, p)
		if err != nil {
			return nil, err
		}
		main.StartAfter = cursor

	case p.Page > 1:
		prefix := base
		prefix.Limit = (p.Page - 1) * p.Limit
		preceding, err := s.products.Query(ctx, prefix)
		if err != nil {
			return nil, NewServiceError("list", "failed to locate page", err)
		}
		if len(preceding) > 0 {
			cursor, err := store.CursorAt(preceding[len(preceding)-1], p.SortBy)
			if err != nil {
				return nil, NewServiceError("list", "failed to build cursor", err)
			}
			main.StartAfter = cursor
		}
		log.Debug("resolved page offset",
			slog.Int("page", p.Page),
			slog.Int("preceding", len(preceding)))
	}

	products, err := s.products.Query(ctx, main)
	if err != nil {
		return nil, NewServiceError("list", "failed to query products", err)
	}

	page := &ProductPage{Products: products}
	if len(products) == p.Limit {
		token, err := encodeCursor(p, products[len(products)-1])
		if err != nil {
			return nil, NewServiceError("list", "failed to encode cursor", err)
		}
		page.NextCursor = token
	}

	return page, nil
}

// GetProduct implements Service.GetProduct.
func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, invalidQuery("product id is required")
	}

	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewServiceError("get", "product not found", err)
		}
		return nil, NewServiceError("get", "failed to fetch product", err)
	}
	return p, nil
}

// SearchProducts implements Service.SearchProducts.
func (s *catalogService) SearchProducts(ctx context.Context, p SearchParams) ([]*domain.Product, error) {
	if p.Term == "" {
		return nil, invalidQuery("search term q is required")
	}

	q := store.ProductQuery{}.Where(domain.FieldSearchKeywords, store.OpArrayContains, p.Term)
	products, err := s.products.Query(ctx, q)
	if err != nil {
		return nil, NewServiceError("search", "failed to query products", err)
	}
	return products, nil
}

// FilterProducts implements Service.FilterProducts.
func (s *catalogService) FilterProducts(ctx context.Context, p FilterParams) ([]*domain.Product, error) {
	if p.Sort == "" {
		p.Sort = domain.FieldPrice
	}

	q := store.ProductQuery{OrderBy: p.Sort, Direction: store.Ascending}.
		Where(domain.FieldPrice, store.OpGreaterOrEqual, p.MinPrice)
	if !math.IsInf(p.MaxPrice, 1) {
		q = q.Where(domain.FieldPrice, store.OpLessOrEqual, p.MaxPrice)
	}
	if p.Brand != "" {
		q = q.Where(domain.FieldBrand, store.OpEqual, p.Brand)
	}

	products, err := s.products.Query(ctx, q)
	if err != nil {
		return nil, NewServiceError("filter", "failed to query products", err)
	}
	return products, nil
}
