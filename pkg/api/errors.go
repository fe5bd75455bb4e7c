package api

import "fmt"

// APIError is returned when the service answers with a non-2xx status
// or with a structured error inside an otherwise successful response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("auphonic api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("auphonic api error (status %d)", e.StatusCode)
}
