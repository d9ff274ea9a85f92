package mirra

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// StatusTable maps error discriminants (Faulter codes) to transport status
// codes. A route's table must be total over the declared error type's
// variants; completeness is verified at registration time when the error
// type is Enumerated.
type StatusTable map[string]int

// checkStatusTable verifies that every declared variant of an Enumerated
// error type has an explicit status mapping.
func checkStatusTable(t reflect.Type, table StatusTable) error {
	et := t
	if et.Kind() == reflect.Pointer {
		et = et.Elem()
	}

	variants, ok := enumVariantsOf(et)
	if !ok {
		return nil
	}

	var missing []string
	for _, v := range variants {
		if _, ok := table[v.Name]; !ok {
			missing = append(missing, v.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("status table for %s is missing variants: %s", t, strings.Join(missing, ", "))
	}
	return nil
}
