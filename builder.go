package mirra

import (
	"context"
	"fmt"
	"os"
	"reflect"

	"github.com/rs/zerolog"
)

// Builder accumulates typed routes during single-threaded startup. Build
// finalizes it exactly once into an immutable (Dispatch, Schema) pair; after
// that the builder must not be touched again.
//
// Registry misuse — an empty or duplicate route name, an unmappable type, an
// incomplete status table, or a second Build — is a programmer error and
// panics. Nothing of the sort is ever deferred to request time.
type Builder[S any] struct {
	name   string
	desc   string
	logger zerolog.Logger

	types  *typeTable
	routes []*routeInfo
	names  map[string]struct{}
	built  bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*builderConfig)

type builderConfig struct {
	desc   string
	logger zerolog.Logger
}

// WithServiceDescription sets the service description in the schema document.
func WithServiceDescription(d string) BuilderOption {
	return func(c *builderConfig) {
		c.desc = d
	}
}

// WithLogger sets the logger used for the unmapped-error fallback. Defaults
// to a stderr logger so mapping gaps stay observable even when no logger is
// wired; pass zerolog.Nop() to silence it.
func WithLogger(logger zerolog.Logger) BuilderOption {
	return func(c *builderConfig) {
		c.logger = logger
	}
}

// New creates a Builder for services sharing state of type S.
func New[S any](name string, opts ...BuilderOption) *Builder[S] {
	cfg := builderConfig{
		logger: zerolog.New(os.Stderr).With().Timestamp().Logger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Builder[S]{
		name:   name,
		desc:   cfg.desc,
		logger: cfg.logger,
		types:  newTypeTable(),
		names:  make(map[string]struct{}),
	}
}

// Route registers a handler under a unique logical name.
//
// This is a package-level function (not a method) because Go methods cannot
// introduce type parameters beyond the receiver's.
func Route[S, I, H, O any](b *Builder[S], name string, h Handler[S, I, H, O], opts ...RouteOption) {
	if b.built {
		panic("mirra: Route called after Build")
	}
	if name == "" {
		panic("mirra: route name must not be empty")
	}
	if _, ok := b.names[name]; ok {
		panic(fmt.Sprintf("mirra: duplicate route name %q", name))
	}

	ri := &routeInfo{
		name:       name,
		inputType:  reflect.TypeFor[I](),
		headerType: reflect.TypeFor[H](),
		outputType: reflect.TypeFor[O](),
	}
	for _, opt := range opts {
		opt(ri)
	}

	ri.inputShape = b.mustDerive(name, "input", ri.inputType)
	ri.headerShape = b.mustDerive(name, "headers", ri.headerType)
	ri.outputShape = b.mustDerive(name, "output", ri.outputType)

	if ri.errType != nil {
		et := ri.errType
		if et.Kind() == reflect.Pointer {
			et = et.Elem()
		}
		shape := b.mustDerive(name, "error", et)
		ri.errShape = &shape
		if err := checkStatusTable(ri.errType, ri.statuses); err != nil {
			panic(fmt.Sprintf("mirra: route %q: %v", name, err))
		}
	}

	ri.call = func(ctx context.Context, state, input, headers any) (any, error) {
		var in I
		if p, ok := input.(*I); ok && p != nil {
			in = *p
		}
		var hd H
		if p, ok := headers.(*H); ok && p != nil {
			hd = *p
		}
		return h(ctx, state.(S), in, hd)
	}

	b.names[name] = struct{}{}
	b.routes = append(b.routes, ri)
}

func (b *Builder[S]) mustDerive(route, part string, t reflect.Type) Shape {
	shape, err := b.types.derive(t)
	if err != nil {
		panic(fmt.Sprintf("mirra: route %q: %s: %v", route, part, err))
	}
	return shape
}

// Build finalizes the builder, returning the dispatch table and the schema
// document. Both artifacts are derived from the builder's single route list,
// so they always enumerate exactly the same logical names. Build must be
// called exactly once; a second call panics.
//
// Routes appear in the schema in registration order. Dispatch lookup is by
// name; order is irrelevant to dispatch correctness.
func (b *Builder[S]) Build() (*Dispatch[S], *Schema) {
	if b.built {
		panic("mirra: Build called twice")
	}
	b.built = true

	d := &Dispatch[S]{
		endpoints: make(map[string]*Endpoint[S], len(b.routes)),
		order:     make([]string, 0, len(b.routes)),
	}

	schema := &Schema{
		Name:        b.name,
		Description: b.desc,
		Routes:      make([]RouteSchema, 0, len(b.routes)),
		Types:       make(map[string]Shape, len(b.types.defs)),
	}
	for name, shape := range b.types.defs {
		schema.Types[name] = shape
	}

	for _, ri := range b.routes {
		d.endpoints[ri.name] = &Endpoint[S]{
			name:       ri.name,
			readonly:   ri.readonly,
			inputType:  ri.inputType,
			headerType: ri.headerType,
			statuses:   ri.statuses,
			call:       ri.call,
			logger:     b.logger,
		}
		d.order = append(d.order, ri.name)

		schema.Routes = append(schema.Routes, RouteSchema{
			Name:        ri.name,
			Tag:         ri.tag,
			Description: ri.desc,
			Readonly:    ri.readonly,
			Input:       ri.inputShape,
			Headers:     ri.headerShape,
			Output:      ri.outputShape,
			Error:       ri.errShape,
		})
	}

	return d, schema
}
