// Package postgres provides the PostgreSQL implementation of the catalog
// store interfaces, along with the embedded schema migrations it needs.
package postgres
