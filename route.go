package mirra

import (
	"context"
	"reflect"
)

// routeInfo holds everything recorded for a registered route. It is the
// single source of truth both artifacts are derived from: Build produces
// the dispatch table and the schema document from the same list, so the
// two can never describe different sets of logical names.
type routeInfo struct {
	name     string
	tag      string
	desc     string
	readonly bool

	inputType  reflect.Type
	headerType reflect.Type
	outputType reflect.Type
	errType    reflect.Type // nil when the route declares no error type
	statuses   StatusTable

	inputShape  Shape
	headerShape Shape
	outputShape Shape
	errShape    *Shape

	// call invokes the typed handler. state is the builder's S, input and
	// headers are pointers to the declared types (as produced by
	// Endpoint.NewInput/NewHeaders).
	call func(ctx context.Context, state, input, headers any) (any, error)
}

// RouteOption configures a route at registration time.
type RouteOption func(*routeInfo)

// WithTag sets the route's grouping tag in the schema document.
func WithTag(tag string) RouteOption {
	return func(ri *routeInfo) {
		ri.tag = tag
	}
}

// WithDescription sets the route's human-readable description.
func WithDescription(d string) RouteOption {
	return func(ri *routeInfo) {
		ri.desc = d
	}
}

// WithReadonly marks the route as having no side effects on shared state.
func WithReadonly() RouteOption {
	return func(ri *routeInfo) {
		ri.readonly = true
	}
}

// WithError declares the route's error type and its status table. The table
// must map every declared variant of E to a transport status code; when E is
// Enumerated this is verified at registration time.
func WithError[E Faulter](table StatusTable) RouteOption {
	return func(ri *routeInfo) {
		ri.errType = reflect.TypeFor[E]()
		ri.statuses = table
	}
}
