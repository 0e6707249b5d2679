// Package store defines the document-store abstraction the catalog is built
// on: single-document get/update plus ordered, filtered, limited queries that
// can resume strictly after a cursor. Implementations live under
// internal/platform.
package store
