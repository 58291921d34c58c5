package provider

import "fmt"

// ConfigurationError reports a missing credential or endpoint detected
// before any network call is attempted. It is never retried.
type ConfigurationError struct {
	Provider Key
	Field    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: missing configuration: %s", e.Provider, e.Field)
}

// TransportError reports a network-level failure or a non-success HTTP
// status. The status code and response body are included for diagnosability.
type TransportError struct {
	Provider   Key
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: transport failure: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError reports a reply body, or a nested field within it, that is not
// valid JSON or does not match the expected envelope. Layer names which
// decode step failed; Raw carries the offending text for debugging.
type ParseError struct {
	Provider Key
	Layer    string
	Raw      string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parse failure at %s: %v", e.Provider, e.Layer, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedProviderError reports a provider key with no registered adapter.
type UnsupportedProviderError struct {
	Provider Key
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider: %q", string(e.Provider))
}
