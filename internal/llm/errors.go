package llm

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is returned before any request is built when no API key is configured.
var ErrMissingCredential = errors.New("API key is not configured; set llm.api_key or AITRANSLATE_LLM_API_KEY")

// TransportError wraps a network-level failure (dial, TLS, timeout, body read).
// The request may be retried by the caller.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is returned for any non-200 response. Body is kept verbatim.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// MalformedResponseError means the API answered 200 but the body did not
// contain choices[0].message.content.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid response from chat completions API: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid response from chat completions API: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
