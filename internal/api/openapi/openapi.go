// Package openapi embeds the OpenAPI YAML specification of the catalog API.
package openapi

import (
	_ "embed"
	"net/http"
)

// YAML contains the embedded OpenAPI document.
//
//go:embed openapi.yaml
var YAML []byte

// Handler serves the OpenAPI document.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(YAML)
}
