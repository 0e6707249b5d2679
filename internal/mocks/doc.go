// Package mocks provides centralized mock implementations for testing.
//
// MockProductStore is an in-memory store.ProductStore that evaluates queries
// with the same semantics as the PostgreSQL document store: typed comparison,
// exclusion of documents missing the order field, identifier tiebreaks and
// start-after cursors. Each method can be overridden with a function field:
//
//	productStore := mocks.NewMockProductStore()
//	productStore.QueryFn = func(ctx context.Context, q store.ProductQuery) ([]*domain.Product, error) {
//	    return nil, errors.New("boom")
//	}
package mocks
