// Package catalog implements the product query operations behind the HTTP
// API: listing with page and cursor pagination, lookup by identifier, keyword
// search and price filtering.
//
// The service composes queries only from the document-store primitives of
// store.ProductReader. Request parameters are parsed and defaulted by the
// Parse*Params functions, which return ErrInvalidQuery for input the client
// must fix.
package catalog
