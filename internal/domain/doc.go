// Package domain contains the catalog's core entity, the Product document,
// and the derivation rules for its search keyword index. It is independent
// of any storage or delivery mechanism.
package domain
