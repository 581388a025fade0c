package schemakit

import (
	"github.com/schemakit/schemakit/internal/ordered"
	"github.com/schemakit/schemakit/jsonschema"
)

// deepEqual compares two decoded JSON values structurally. Numeric
// representations (json.Number, float64, int...) compare by value;
// insertion-ordered objects and plain maps compare by key set, not by
// key order.
func deepEqual(a, b any) bool {
	if na, ok := jsonschema.ToFloat(a); ok {
		nb, ok := jsonschema.ToFloat(b)
		return ok && na == nb
	}
	switch ta := a.(type) {
	case nil:
		return b == nil
	case bool:
		tb, ok := b.(bool)
		return ok && ta == tb
	case string:
		tb, ok := b.(string)
		return ok && ta == tb
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !deepEqual(ta[i], tb[i]) {
				return false
			}
		}
		return true
	}
	if ordered.IsObject(a) {
		if !ordered.IsObject(b) || ordered.LenOf(a) != ordered.LenOf(b) {
			return false
		}
		for _, k := range ordered.KeysOf(a) {
			av, _ := ordered.Lookup(a, k)
			bv, ok := ordered.Lookup(b, k)
			if !ok || !deepEqual(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}
