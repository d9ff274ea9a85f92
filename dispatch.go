package mirra

import (
	"context"
	"errors"
	"net/http"
	"reflect"

	"github.com/rs/zerolog"
)

// Dispatch maps logical operation names to invocable endpoints. It is
// immutable after Build: request-time reads need no synchronization.
type Dispatch[S any] struct {
	endpoints map[string]*Endpoint[S]
	order     []string
}

// Lookup returns the endpoint registered under name.
func (d *Dispatch[S]) Lookup(name string) (*Endpoint[S], bool) {
	ep, ok := d.endpoints[name]
	return ep, ok
}

// Names returns the logical names in registration order.
func (d *Dispatch[S]) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Status resolves the transport status code for an error returned by the
// named endpoint. Unknown names resolve to the generic fallback.
func (d *Dispatch[S]) Status(name string, err error) int {
	if ep, ok := d.endpoints[name]; ok {
		return ep.Status(err)
	}
	return http.StatusInternalServerError
}

// Endpoint is a single dispatch entry: one registered handler plus the
// metadata the transport layer needs to execute it.
type Endpoint[S any] struct {
	name       string
	readonly   bool
	inputType  reflect.Type
	headerType reflect.Type
	statuses   StatusTable
	call       func(ctx context.Context, state, input, headers any) (any, error)
	logger     zerolog.Logger
}

// Name returns the endpoint's logical name.
func (e *Endpoint[S]) Name() string { return e.name }

// Readonly reports whether the route was registered as read-only.
func (e *Endpoint[S]) Readonly() bool { return e.readonly }

// NewInput returns a pointer to a fresh zero value of the declared input
// type, suitable as a deserialization target.
func (e *Endpoint[S]) NewInput() any { return reflect.New(e.inputType).Interface() }

// NewHeaders returns a pointer to a fresh zero value of the declared header
// type.
func (e *Endpoint[S]) NewHeaders() any { return reflect.New(e.headerType).Interface() }

// Call invokes the handler with already-deserialized input and headers, as
// produced by NewInput and NewHeaders.
func (e *Endpoint[S]) Call(ctx context.Context, state S, input, headers any) (any, error) {
	return e.call(ctx, state, input, headers)
}

// Status resolves an error to a transport status code using the route's
// status table. An error without a mapping resolves to 500 — the single
// permitted fallback — and is logged so mapping gaps are discoverable
// instead of silently masked.
func (e *Endpoint[S]) Status(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var f Faulter
	if errors.As(err, &f) {
		if code, ok := e.statuses[f.FaultCode()]; ok {
			return code
		}
		e.logger.Warn().
			Str("route", e.name).
			Str("code", f.FaultCode()).
			Msg("error code has no status mapping, falling back to 500")
		return http.StatusInternalServerError
	}

	e.logger.Warn().
		Str("route", e.name).
		Err(err).
		Msg("error type has no status mapping, falling back to 500")
	return http.StatusInternalServerError
}
