// Package mocks provides hand-written test doubles for the generation
// collaborators. Each mock records its calls and either returns fixed
// values or delegates to an optional function field.
package mocks
