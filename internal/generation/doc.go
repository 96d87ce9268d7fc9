// Package generation implements single-copy generation for a product:
// catalog and model lookup, provider resolution, prompt composition and the
// completion call, in buffered or streaming form.
package generation
