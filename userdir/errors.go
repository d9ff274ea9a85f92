package userdir

import (
	"net/http"

	"github.com/mirra-dev/mirra"
)

// Error codes returned by the store.
const (
	CodeUserNotFound    = "user_not_found"
	CodeInvalidUsername = "invalid_username"
	CodeInvalidEmail    = "invalid_email"
	CodeUserExists      = "user_exists"
)

// Error is the typed error returned by store operations.
type Error struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Detail  *string `json:"detail,omitempty"`
}

// Error returns the human-readable message.
func (e *Error) Error() string { return e.Message }

// FaultCode returns the machine-readable code.
func (e *Error) FaultCode() string { return e.Code }

// EnumVariants declares every error code this package can return. The
// registry checks Statuses against this list at registration time, so a
// new code without a status mapping fails at startup.
func (*Error) EnumVariants() []mirra.EnumVariant {
	return []mirra.EnumVariant{
		{Name: CodeUserNotFound},
		{Name: CodeInvalidUsername},
		{Name: CodeInvalidEmail},
		{Name: CodeUserExists},
	}
}

// Statuses maps every error code to its transport status: not-found,
// validation, and conflict outcomes each get a distinct status.
func Statuses() mirra.StatusTable {
	return mirra.StatusTable{
		CodeUserNotFound:    http.StatusNotFound,
		CodeInvalidUsername: http.StatusBadRequest,
		CodeInvalidEmail:    http.StatusBadRequest,
		CodeUserExists:      http.StatusConflict,
	}
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) withDetail(detail string) *Error {
	e.Detail = &detail
	return e
}
