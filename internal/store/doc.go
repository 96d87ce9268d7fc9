// Package store defines the catalog persistence contracts used by the
// generation components. Implementations live under internal/platform.
package store
