package mirra

import "reflect"

// Test-only exports for internal functions.
var CheckStatusTable = checkStatusTable

// TestTypeTable wraps typeTable for external tests.
type TestTypeTable struct {
	tt   *typeTable
	Defs map[string]Shape
}

// NewTypeTable creates a TestTypeTable for testing.
func NewTypeTable() *TestTypeTable {
	tt := newTypeTable()
	return &TestTypeTable{tt: tt, Defs: tt.defs}
}

// Derive delegates to the internal table.
func (t *TestTypeTable) Derive(typ reflect.Type) (Shape, error) {
	return t.tt.derive(typ)
}
