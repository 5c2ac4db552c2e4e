package utils

import "fmt"

// HTTPError is a domain failure carrying a status code and an i18n message key.
// The message is resolved against the requester's language by the error handler.
type HTTPError struct {
	Status int
	Key    string
	Data   map[string]interface{}
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Key)
}

func NewHTTPError(status int, key string) *HTTPError {
	return &HTTPError{Status: status, Key: key}
}
