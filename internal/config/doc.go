// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, .env files, config files). It
// provides type-safe access to application settings needed by different
// components while keeping configuration details separate from business logic.
//
// Provider credentials are read here once and handed to the provider resolver
// at construction time; no other package reads them from the environment.
package config
