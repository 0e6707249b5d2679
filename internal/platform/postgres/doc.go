// Package postgres implements the document-store interfaces of internal/store
// on PostgreSQL, keeping each product as a JSONB document in a single
// products table. It also owns the embedded schema migrations.
package postgres
