// Package mirra is a self-describing request/response framework for Go.
// Handlers are registered against typed input/output contracts, and the
// same registration produces both a live dispatch table and a
// machine-readable schema document — no code-generation step.
//
// The core handler signature is a pure function of shared state, input,
// and headers:
//
//	type Handler[S, I, H, O any] func(ctx context.Context, state S, input I, headers H) (O, error)
//
// Routes are registered on a Builder under unique logical names and
// finalized exactly once:
//
//	b := mirra.New[*Store]("User Directory")
//	mirra.Route(b, "users.list", listUsers, mirra.WithReadonly(), mirra.WithTag("users"))
//	mirra.Route(b, "user.create", createUser,
//	    mirra.WithError[*Error](mirra.StatusTable{"user_exists": http.StatusConflict}))
//	dispatch, schema := b.Build()
//
// Build derives both artifacts from the same internal route list, so the
// dispatch table and the schema document are guaranteed to describe exactly
// the same set of logical names. Registry misuse — duplicate names,
// unmappable types, incomplete status tables, a second Build — panics at
// startup; it is never deferred to request time.
//
// Errors declare a machine-readable code via Faulter, and each route's
// status table maps codes to transport status codes. Codes without a
// mapping resolve to 500 and are logged so gaps stay visible.
//
// NewHTTPHandler binds a dispatch table to HTTP, and Schema serializes to
// JSON or YAML for documentation UIs and client generators.
package mirra
