package publish

import (
	"fmt"
	"net/http"
)

// RequestError is a publish failure the caller can act on; Status is the
// HTTP status the hub answers with.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func badRequest(format string, args ...any) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

var (
	errNameRequired  = badRequest("Tool name is required")
	errFilesRequired = badRequest("Tool files are required")
	errIndexRequired = badRequest("index.html file is required")
	errEmptySlug     = badRequest("Tool name must contain letters or digits")
)
