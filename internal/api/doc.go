// Package api handles incoming HTTP requests for the catalog, request
// parameter parsing, and response formatting. It acts as an adapter between
// external clients and the catalog service, translating HTTP concerns to
// query operations.
package api
