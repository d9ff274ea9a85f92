package mirra

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
)

// Middleware is the standard middleware signature compatible with the entire
// Go middleware ecosystem.
type Middleware func(next http.Handler) http.Handler

// NewHTTPHandler binds a dispatch table to HTTP. Every endpoint is exposed
// at POST /{name}; read-only endpoints also accept GET. The handler owns
// deserialization of the request body into the declared input type, header
// binding, and error-to-status translation — handlers themselves never see
// the transport.
func NewHTTPHandler[S any](d *Dispatch[S], state S, mw ...Middleware) http.Handler {
	mux := http.NewServeMux()

	for _, name := range d.Names() {
		ep, _ := d.Lookup(name)
		h := endpointHandler(ep, state)
		mux.Handle("POST /"+name, h)
		if ep.Readonly() {
			mux.Handle("GET /"+name, h)
		}
	}

	var handler http.Handler = mux
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

func endpointHandler[S any](ep *Endpoint[S], state S) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		input := ep.NewInput()
		if err := decodeBody(r.Body, input); err != nil {
			writeError(w, http.StatusBadRequest, NewFault("invalid_body", err.Error()))
			return
		}

		headers := ep.NewHeaders()
		bindHeaders(r.Header, headers)

		out, err := ep.Call(r.Context(), state, input, headers)
		if err != nil {
			writeError(w, ep.Status(err), errorBody(err))
			return
		}

		if _, ok := out.(Empty); ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck,gosec // best-effort after WriteHeader
		json.NewEncoder(w).Encode(out)
	})
}

// decodeBody decodes a JSON request body. An empty body leaves the target
// at its zero value, so Empty-input routes need no body at all.
func decodeBody(r io.Reader, v any) error {
	err := json.NewDecoder(r).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// bindHeaders copies request header values into string fields tagged
// header:"Name" on the target struct.
func bindHeaders(src http.Header, target any) {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()
	if t.Kind() != reflect.Struct {
		return
	}

	for i := range t.NumField() {
		f := t.Field(i)
		name := f.Tag.Get("header")
		if name == "" || !f.IsExported() || f.Type.Kind() != reflect.String {
			continue
		}
		if val := src.Get(name); val != "" {
			v.Field(i).SetString(val)
		}
	}
}

// errorBody converts an error to its wire representation. Faulter values
// are serialized as-is (so extra fields like a detail survive); anything
// else is reported generically so internal details never leak to clients.
func errorBody(err error) any {
	var f Faulter
	if errors.As(err, &f) {
		return f
	}
	return NewFault("internal_error", "internal server error")
}

func writeError(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(body)
}
