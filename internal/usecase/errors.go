package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeEntryNotFound = "ENTRY_NOT_FOUND"
	CodeStageBoundary = "STAGE_BOUNDARY"
	CodeBusy          = "OPERATION_IN_FLIGHT"
	CodeGateway       = "GATEWAY_ERROR"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var d *DomainError
	return errors.As(err, &d)
}

func HasDomainCode(err error, code string) bool {
	var d *DomainError
	return errors.As(err, &d) && d.Code == code
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var t *TechnicalError
	return errors.As(err, &t)
}

// ValidationError is raised before any gateway call.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

func gatewayFailure(op string, err error) error {
	return &TechnicalError{
		Code:    CodeGateway,
		Message: op + " failed",
		Err:     err,
	}
}

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is the transient message shown to the user for a failed action.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// NoticeFor converts any operation error into a user-facing notice. fallback is used for
// failures that carry no message worth showing.
func NoticeFor(err error, fallback string) Notice {
	var (
		vErr ValidationError
		dErr *DomainError
	)

	switch {
	case errors.As(err, &vErr):
		return Notice{Level: NoticeWarning, Message: vErr.Error()}
	case errors.As(err, &dErr):
		level := NoticeWarning
		if dErr.Code == CodeBusy || dErr.Code == CodeStageBoundary {
			level = NoticeInfo
		}
		return Notice{Level: level, Message: dErr.Message}
	}

	if gwErr, ok := entity.AsGatewayError(err); ok && gwErr.IsRejection() && gwErr.Message != "" {
		return Notice{Level: NoticeError, Message: gwErr.Message}
	}

	return Notice{Level: NoticeError, Message: fallback}
}
