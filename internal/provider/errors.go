package provider

import "errors"

// ErrUnsupportedProvider is returned for a provider tag without an endpoint.
// It indicates a configuration or programming error, not a runtime condition.
var ErrUnsupportedProvider = errors.New("unsupported provider")
