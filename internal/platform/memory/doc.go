// Package memory provides an in-process catalog implementing the store
// interfaces, seeded from YAML.
package memory
