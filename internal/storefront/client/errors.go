package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the catalog API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("catalog api: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("catalog api: %d %s", e.Status, e.Message)
}

// Temporary reports whether retrying the same request may succeed.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest
}
