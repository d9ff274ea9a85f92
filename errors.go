package mirra

import "fmt"

// Faulter is implemented by errors that carry a machine-readable code. The
// code is the discriminant that status tables are keyed by; domain errors
// never carry transport status codes themselves.
type Faulter interface {
	error
	FaultCode() string
}

// Fault is the stock Faulter implementation and the wire shape errors are
// serialized to.
type Fault struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Detail  *string `json:"detail,omitempty"`
}

// Error returns the human-readable message.
func (f *Fault) Error() string { return f.Message }

// FaultCode returns the machine-readable code.
func (f *Fault) FaultCode() string { return f.Code }

// NewFault returns a Fault with the given code and message.
func NewFault(code, message string) *Fault {
	return &Fault{Code: code, Message: message}
}

// Faultf returns a Fault with a formatted message.
func Faultf(code, format string, args ...any) *Fault {
	return &Fault{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetail returns a copy of the fault with the detail set.
func (f *Fault) WithDetail(detail string) *Fault {
	cp := *f
	cp.Detail = &detail
	return &cp
}
