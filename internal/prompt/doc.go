// Package prompt composes the LLM prompt for one (product, copy type) pair.
//
// Composition is pure: the output depends only on the product fields and the
// copy type. When the caller does not choose a copy type, one is picked through
// an injectable Picker, which is the only source of variability.
package prompt
