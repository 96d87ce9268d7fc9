// Package domain defines the core business entities of the GEO copy service:
// products and their GEO variants, the closed set of copy types that shape a
// generation prompt, and the catalog of available LLM models.
//
// Types here carry no I/O. Validation lives next to the type it guards.
package domain
