// Package llm talks to OpenAI-compatible chat-completion endpoints and
// relays their streamed output.
//
// Client issues one completion request per call, either buffered (returning
// the first choice's message content) or streaming (returning the live
// response body). Relay and RelayTransformer turn the provider's native
// event stream into the normalized event stream served to callers.
package llm
