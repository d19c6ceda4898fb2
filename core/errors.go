package core

import (
	"fmt"
	"net/http"
)

// InputError reports a feed identifier that could not be normalized.
type InputError struct {
	Input string
}

func (e *InputError) Error() string {
	if e.Input == "" {
		return "empty feed identifier"
	}
	return fmt.Sprintf("invalid feed identifier %q", e.Input)
}

// FetchError reports a failed feed retrieval: a transport failure, a timeout,
// or a non-2xx response. StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%d %s for url: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ExportError reports a failure while assembling one output format.
type ExportError struct {
	Format string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
