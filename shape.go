package mirra

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Kind discriminates the variants of a Shape.
type Kind string

// Shape kinds.
const (
	KindPrimitive Kind = "primitive"
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
	KindList      Kind = "list"
	KindMap       Kind = "map"
	KindOptional  Kind = "optional"
	KindRef       Kind = "ref"
)

// Shape is a language-agnostic description of a data shape. It is a tagged
// variant: Kind selects which of the remaining fields are meaningful.
//
//   - KindPrimitive: Name holds the primitive name ("string", "integer", ...)
//   - KindStruct:    Fields holds the ordered field list
//   - KindEnum:      Variants holds the ordered variant list
//   - KindList:      Elem holds the element shape
//   - KindMap:       Elem holds the value shape (keys are always strings)
//   - KindOptional:  Elem holds the inner shape
//   - KindRef:       Name references an entry in the schema's type table
//
// Named struct and enum types are derived exactly once into a shared type
// table and referenced by KindRef everywhere else, so a Shape graph is
// acyclic by construction even for recursive types.
type Shape struct {
	Kind     Kind      `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Fields   []Field   `json:"fields,omitempty"`
	Variants []Variant `json:"variants,omitempty"`
	Elem     *Shape    `json:"elem,omitempty"`
}

// Field describes one struct field.
type Field struct {
	Name     string `json:"name"`
	Shape    Shape  `json:"shape"`
	Optional bool   `json:"optional,omitempty"`
	Doc      string `json:"doc,omitempty"`
}

// Variant describes one enum variant. Payload is nil for bare variants.
type Variant struct {
	Name    string `json:"name"`
	Payload *Shape `json:"payload,omitempty"`
}

// EnumVariant declares a single variant of an enumerated type. Payload is an
// optional sample value; its type is reflected into the variant's associated
// shape. Leave Payload nil for variants with no associated data.
type EnumVariant struct {
	Name    string
	Payload any
}

// Enumerated is implemented by types that declare a closed set of variants.
// Go has no native sum types, so shape derivation treats any Enumerated type
// as an enum rather than inspecting its underlying representation. Status
// table completeness is also checked against these variants.
type Enumerated interface {
	EnumVariants() []EnumVariant
}

var (
	timeType       = reflect.TypeFor[time.Time]()
	durationType   = reflect.TypeFor[time.Duration]()
	emptyType      = reflect.TypeFor[Empty]()
	enumeratedType = reflect.TypeFor[Enumerated]()
)

// typeTable derives shapes from reflect types and accumulates named type
// definitions. Derivation is deterministic and idempotent: the same type
// always yields a structurally identical Shape and at most one table entry.
type typeTable struct {
	defs  map[string]Shape
	order []string
	names map[reflect.Type]string
}

func newTypeTable() *typeTable {
	return &typeTable{
		defs:  make(map[string]Shape),
		names: make(map[reflect.Type]string),
	}
}

// derive maps a reflect.Type to a Shape, registering named struct and enum
// definitions in the table. Unmappable types (functions, channels, maps with
// non-string keys, ...) return an error so registration can fail before the
// server accepts traffic.
func (tt *typeTable) derive(t reflect.Type) (Shape, error) {
	if t.Kind() == reflect.Pointer {
		inner, err := tt.derive(t.Elem())
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: KindOptional, Elem: &inner}, nil
	}

	switch t {
	case timeType:
		return Shape{Kind: KindPrimitive, Name: "timestamp"}, nil
	case durationType:
		return Shape{Kind: KindPrimitive, Name: "duration"}, nil
	case emptyType:
		return Shape{Kind: KindPrimitive, Name: "empty"}, nil
	}

	if enum, ok := enumVariantsOf(t); ok {
		return tt.deriveEnum(t, enum)
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		return Shape{Kind: KindPrimitive, Name: "string"}, nil
	case reflect.Bool:
		return Shape{Kind: KindPrimitive, Name: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Shape{Kind: KindPrimitive, Name: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return Shape{Kind: KindPrimitive, Name: "number"}, nil
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return Shape{Kind: KindPrimitive, Name: "bytes"}, nil
		}
		elem, err := tt.derive(t.Elem())
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: KindList, Elem: &elem}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Shape{}, fmt.Errorf("map key type %s is not representable", t.Key())
		}
		elem, err := tt.derive(t.Elem())
		if err != nil {
			return Shape{}, err
		}
		return Shape{Kind: KindMap, Elem: &elem}, nil
	case reflect.Struct:
		return tt.deriveStruct(t)
	default:
		return Shape{}, fmt.Errorf("type %s is not representable in a schema", t)
	}
}

// deriveStruct builds a struct shape. Named types go through the table and
// come back as refs; anonymous structs are inlined.
func (tt *typeTable) deriveStruct(t reflect.Type) (Shape, error) {
	if t.Name() == "" {
		return tt.structShape(t)
	}

	name, done, err := tt.define(t)
	if done || err != nil {
		return Shape{Kind: KindRef, Name: name}, err
	}

	shape, err := tt.structShape(t)
	if err != nil {
		return Shape{}, err
	}
	tt.defs[name] = shape
	return Shape{Kind: KindRef, Name: name}, nil
}

func (tt *typeTable) structShape(t reflect.Type) (Shape, error) {
	shape := Shape{Kind: KindStruct}

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name, opts := fieldName(f)
		if name == "-" {
			continue
		}

		fs, err := tt.derive(f.Type)
		if err != nil {
			return Shape{}, fmt.Errorf("field %s.%s: %w", t.Name(), f.Name, err)
		}

		shape.Fields = append(shape.Fields, Field{
			Name:     name,
			Shape:    fs,
			Optional: fieldOptional(f, opts),
			Doc:      f.Tag.Get("doc"),
		})
	}

	return shape, nil
}

// deriveEnum builds an enum shape from the declared variants. Named enum
// types go through the table like named structs.
func (tt *typeTable) deriveEnum(t reflect.Type, variants []EnumVariant) (Shape, error) {
	named := t.Name() != ""

	var name string
	if named {
		var done bool
		var err error
		name, done, err = tt.define(t)
		if done || err != nil {
			return Shape{Kind: KindRef, Name: name}, err
		}
	}

	shape := Shape{Kind: KindEnum}
	for _, v := range variants {
		variant := Variant{Name: v.Name}
		if v.Payload != nil {
			ps, err := tt.derive(reflect.TypeOf(v.Payload))
			if err != nil {
				return Shape{}, fmt.Errorf("enum %s variant %s: %w", t, v.Name, err)
			}
			variant.Payload = &ps
		}
		shape.Variants = append(shape.Variants, variant)
	}

	if !named {
		return shape, nil
	}
	tt.defs[name] = shape
	return Shape{Kind: KindRef, Name: name}, nil
}

// define reserves a table slot for a named type and returns its table name.
// done is true when the type was already defined (or is being defined higher
// up the stack, which breaks recursion cycles).
func (tt *typeTable) define(t reflect.Type) (name string, done bool, err error) {
	if name, ok := tt.names[t]; ok {
		return name, true, nil
	}

	name = t.Name()
	if other, taken := tt.typeFor(name); taken && other != t {
		name = qualifiedName(t)
		if other, taken := tt.typeFor(name); taken && other != t {
			return "", false, fmt.Errorf("type name %q is ambiguous between %s and %s", name, other, t)
		}
	}

	tt.names[t] = name
	tt.order = append(tt.order, name)
	// Reserve the slot before deriving the body so recursive references
	// resolve to this name instead of expanding forever.
	tt.defs[name] = Shape{Kind: KindRef, Name: name}
	return name, false, nil
}

func (tt *typeTable) typeFor(name string) (reflect.Type, bool) {
	for t, n := range tt.names {
		if n == name {
			return t, true
		}
	}
	return nil, false
}

// qualifiedName disambiguates same-named types from different packages,
// e.g. "user.Error" instead of "Error".
func qualifiedName(t reflect.Type) string {
	pkg := t.PkgPath()
	if i := strings.LastIndexByte(pkg, '/'); i >= 0 {
		pkg = pkg[i+1:]
	}
	if pkg == "" {
		return t.Name()
	}
	return pkg + "." + t.Name()
}

// enumVariantsOf reports whether t declares enum variants, checking both
// value and pointer method sets.
func enumVariantsOf(t reflect.Type) ([]EnumVariant, bool) {
	if t.Implements(enumeratedType) {
		return reflect.Zero(t).Interface().(Enumerated).EnumVariants(), true
	}
	if reflect.PointerTo(t).Implements(enumeratedType) {
		return reflect.New(t).Interface().(Enumerated).EnumVariants(), true
	}
	return nil, false
}

// fieldName returns the wire name and tag options for a struct field,
// following encoding/json conventions.
func fieldName(f reflect.StructField) (string, string) {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name, ""
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, opts
}

// fieldOptional reports whether a field is optional: pointer-typed fields,
// fields tagged optional:"true", and fields with the json omitempty option.
func fieldOptional(f reflect.StructField, jsonOpts string) bool {
	if f.Type.Kind() == reflect.Pointer {
		return true
	}
	if f.Tag.Get("optional") == "true" {
		return true
	}
	for opt := range strings.SplitSeq(jsonOpts, ",") {
		if opt == "omitempty" {
			return true
		}
	}
	return false
}
