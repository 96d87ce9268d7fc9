// Package provider resolves a provider tag to the upstream chat-completion
// endpoint and the credential configured for it.
//
// The endpoint table is closed: supporting a new provider means adding a row
// to it, not changing call sites.
package provider
