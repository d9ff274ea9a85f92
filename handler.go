package mirra

import "context"

// Empty is used as a type parameter when a route has no input, no headers,
// or no response payload.
type Empty struct{}

// Handler is the core typed handler signature. A handler is a function of
// (shared state, input, headers) producing a success value or an error —
// it never sees the transport. Expected outcomes (not found, validation
// failures, conflicts) are returned as typed error values, not panics.
type Handler[S, I, H, O any] func(ctx context.Context, state S, input I, headers H) (O, error)
