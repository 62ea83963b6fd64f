package repository

import (
	"errors"
	"fmt"
)

// ErrNetwork wraps transport failures (DNS, refused connection, reset, canceled context)
var ErrNetwork = errors.New("network error")

// ErrBaseURLNotSet is returned when no backend base URL has been configured
var ErrBaseURLNotSet = errors.New("backend base URL is not set")

// BackendError is a non-2xx answer, or a 2xx answer carrying an {"error": ...} body
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// BackendMessage returns the server supplied message of err, if any
func BackendMessage(err error) (string, bool) {
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message, true
	}
	return "", false
}
