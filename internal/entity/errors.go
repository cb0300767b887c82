package entity

import (
	"errors"
	"fmt"
	"net/http"
)

// GatewayError is what gateway implementations return when the remote side answers
// with a non-success status. StatusCode 0 means the request never got an answer.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("gateway unreachable: %s", e.Message)
	}
	return fmt.Sprintf("gateway status %d: %s", e.StatusCode, e.Message)
}

// IsRejection reports 4xx semantics: the request itself was refused.
func (e *GatewayError) IsRejection() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

func NewNotFoundError(what, id string) *GatewayError {
	return &GatewayError{StatusCode: http.StatusNotFound, Message: fmt.Sprintf("%s %s not found", what, id)}
}

func NewConflictError(msg string) *GatewayError {
	return &GatewayError{StatusCode: http.StatusConflict, Message: msg}
}

func AsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}
