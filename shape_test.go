package mirra_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirra-dev/mirra"
)

func TestDerive_primitives(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		typ    reflect.Type
		expect mirra.Shape
	}{
		"string": {
			typ:    reflect.TypeFor[string](),
			expect: mirra.Shape{Kind: mirra.KindPrimitive, Name: "string"},
		},
		"int": {
			typ:    reflect.TypeFor[int](),
			expect: mirra.Shape{Kind: mirra.KindPrimitive, Name: "integer"},
		},
		"uint64": {
			typ:    reflect.TypeFor[uint64](),
			expect: mirra.Shape{Kind: mirra.KindPrimitive, Name: "integer"},
		},
		"float64": {
			typ:    reflect.TypeFor[float64](),
			expect: mirra.Shape{Kind: mirra.KindPrimitive, Name: "number"},
		},
		"bool": {
			typ:    reflect.TypeFor[bool](),
			expect: mirra.Shape{Kind: mirra.KindPrimitive, Name: "boolean"},
		},
		"time.Time": {
			typ:    reflect.TypeFor[time.Time](),
			expect: mirra.Shape{Kind: mirra.KindPrimitive, Name: "timestamp"},
		},
		"time.Duration": {
			typ:    reflect.TypeFor[time.Duration](),
			expect: mirra.Shape{Kind: mirra.KindPrimitive, Name: "duration"},
		},
		"Empty": {
			typ:    reflect.TypeFor[mirra.Empty](),
			expect: mirra.Shape{Kind: mirra.KindPrimitive, Name: "empty"},
		},
		"[]byte": {
			typ:    reflect.TypeFor[[]byte](),
			expect: mirra.Shape{Kind: mirra.KindPrimitive, Name: "bytes"},
		},
		"[]string": {
			typ: reflect.TypeFor[[]string](),
			expect: mirra.Shape{
				Kind: mirra.KindList,
				Elem: &mirra.Shape{Kind: mirra.KindPrimitive, Name: "string"},
			},
		},
		"map[string]int": {
			typ: reflect.TypeFor[map[string]int](),
			expect: mirra.Shape{
				Kind: mirra.KindMap,
				Elem: &mirra.Shape{Kind: mirra.KindPrimitive, Name: "integer"},
			},
		},
		"pointer becomes optional": {
			typ: reflect.TypeFor[*string](),
			expect: mirra.Shape{
				Kind: mirra.KindOptional,
				Elem: &mirra.Shape{Kind: mirra.KindPrimitive, Name: "string"},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := mirra.NewTypeTable().Derive(tc.typ)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestDerive_struct_fields(t *testing.T) {
	t.Parallel()

	type example struct {
		Name     string  `json:"name" doc:"The name"`
		Email    string  `json:"email"`
		Age      int     `json:"age,omitempty"`
		Nickname *string `json:"nickname"`
		Tagged   string  `json:"tagged" optional:"true"`
		hidden   string  //nolint:unused // exercises the unexported-field skip
		Ignored  string  `json:"-"`
	}

	tt := mirra.NewTypeTable()
	got, err := tt.Derive(reflect.TypeFor[example]())
	require.NoError(t, err)

	require.Equal(t, mirra.KindRef, got.Kind)
	def, ok := tt.Defs[got.Name]
	require.True(t, ok)

	require.Equal(t, mirra.KindStruct, def.Kind)
	require.Len(t, def.Fields, 5)

	assert.Equal(t, "name", def.Fields[0].Name)
	assert.Equal(t, "The name", def.Fields[0].Doc)
	assert.False(t, def.Fields[0].Optional)

	assert.Equal(t, "email", def.Fields[1].Name)
	assert.False(t, def.Fields[1].Optional)

	assert.True(t, def.Fields[2].Optional, "omitempty fields are optional")
	assert.True(t, def.Fields[3].Optional, "pointer fields are optional")
	assert.True(t, def.Fields[4].Optional, "optional-tagged fields are optional")
}

func TestDerive_anonymous_struct_inlines(t *testing.T) {
	t.Parallel()

	tt := mirra.NewTypeTable()
	got, err := tt.Derive(reflect.TypeFor[struct {
		Name string `json:"name"`
	}]())
	require.NoError(t, err)

	assert.Equal(t, mirra.KindStruct, got.Kind)
	assert.Empty(t, tt.Defs)
}

type color string

func (color) EnumVariants() []mirra.EnumVariant {
	return []mirra.EnumVariant{{Name: "red"}, {Name: "green"}, {Name: "blue"}}
}

type shipment struct {
	Delivered *time.Time `json:"delivered,omitempty"`
}

type parcelEvent struct{}

func (*parcelEvent) EnumVariants() []mirra.EnumVariant {
	return []mirra.EnumVariant{
		{Name: "created"},
		{Name: "shipped", Payload: shipment{}},
	}
}

func TestDerive_enums(t *testing.T) {
	t.Parallel()

	t.Run("bare variants", func(t *testing.T) {
		t.Parallel()

		tt := mirra.NewTypeTable()
		got, err := tt.Derive(reflect.TypeFor[color]())
		require.NoError(t, err)

		require.Equal(t, mirra.KindRef, got.Kind)
		def := tt.Defs[got.Name]
		require.Equal(t, mirra.KindEnum, def.Kind)
		require.Len(t, def.Variants, 3)
		assert.Equal(t, "red", def.Variants[0].Name)
		assert.Nil(t, def.Variants[0].Payload)
	})

	t.Run("variant payloads", func(t *testing.T) {
		t.Parallel()

		tt := mirra.NewTypeTable()
		got, err := tt.Derive(reflect.TypeFor[parcelEvent]())
		require.NoError(t, err)

		def := tt.Defs[got.Name]
		require.Equal(t, mirra.KindEnum, def.Kind)
		require.Len(t, def.Variants, 2)

		assert.Nil(t, def.Variants[0].Payload)
		require.NotNil(t, def.Variants[1].Payload)
		assert.Equal(t, mirra.KindRef, def.Variants[1].Payload.Kind)

		// The payload type lands in the shared table.
		payload := tt.Defs[def.Variants[1].Payload.Name]
		assert.Equal(t, mirra.KindStruct, payload.Kind)
	})
}

type treeNode struct {
	Value    int        `json:"value"`
	Children []treeNode `json:"children,omitempty"`
}

func TestDerive_recursive_type_uses_ref(t *testing.T) {
	t.Parallel()

	tt := mirra.NewTypeTable()
	got, err := tt.Derive(reflect.TypeFor[treeNode]())
	require.NoError(t, err)

	require.Equal(t, mirra.KindRef, got.Kind)
	def := tt.Defs[got.Name]
	require.Equal(t, mirra.KindStruct, def.Kind)
	require.Len(t, def.Fields, 2)

	children := def.Fields[1].Shape
	require.Equal(t, mirra.KindList, children.Kind)
	assert.Equal(t, mirra.KindRef, children.Elem.Kind)
	assert.Equal(t, got.Name, children.Elem.Name)
}

func TestDerive_named_type_derived_once(t *testing.T) {
	t.Parallel()

	type inner struct {
		A string `json:"a"`
	}
	type outer struct {
		First  inner `json:"first"`
		Second inner `json:"second"`
	}

	tt := mirra.NewTypeTable()
	_, err := tt.Derive(reflect.TypeFor[outer]())
	require.NoError(t, err)

	assert.Len(t, tt.Defs, 2, "inner must appear exactly once in the table")
}

func TestDerive_deterministic(t *testing.T) {
	t.Parallel()

	type record struct {
		Name  string   `json:"name"`
		Tags  []string `json:"tags,omitempty"`
		Score *float64 `json:"score"`
	}

	first, err := mirra.NewTypeTable().Derive(reflect.TypeFor[record]())
	require.NoError(t, err)
	second, err := mirra.NewTypeTable().Derive(reflect.TypeFor[record]())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDerive_unmappable_types(t *testing.T) {
	t.Parallel()

	tests := map[string]reflect.Type{
		"func":            reflect.TypeFor[func()](),
		"chan":            reflect.TypeFor[chan int](),
		"non-string keys": reflect.TypeFor[map[int]string](),
	}

	for name, typ := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := mirra.NewTypeTable().Derive(typ)
			assert.Error(t, err)
		})
	}
}
