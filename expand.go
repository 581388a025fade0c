package schemakit

import (
	"github.com/schemakit/schemakit/internal/jsonptr"
	"github.com/schemakit/schemakit/internal/ordered"
	"github.com/schemakit/schemakit/internal/reftable"
)

// ExpandSchema returns a best-effort flattened copy of a raw schema
/// value: every reference into the same (already loaded) document is
// inlined, recursively. It never blocks and never triggers a fetch;
// cross-document references and cyclic references are left as-is.
// Callers use it to pick a strategy from partial information before
// full resolution completes.
func ExpandSchema(schema any, fileBase string) any {
	root := deepCopy(schema)
	expandValue(root, root, fileBase, map[string]bool{}, -1)
	return root
}

// ExpandRefs is like ExpandSchema but inlines local references only one
// level deep, for introspection helpers that need the immediate shape
// of a node without a full flatten.
func ExpandRefs(schema any, fileBase string) any {
	root := deepCopy(schema)
	expandValue(root, root, fileBase, map[string]bool{}, 1)
	return root
}

// expandValue resolves local $refs inside node against the root
// document. visited guards against reference cycles: a pointer already
// on the active chain stays a $ref. depth < 0 means unlimited.
func expandValue(node, root any, fileBase string, visited map[string]bool, depth int) {
	if depth == 0 {
		return
	}
	switch {
	case ordered.IsObject(node):
		expandObject(node, root, fileBase, visited, depth)
	default:
		if arr, ok := node.([]any); ok {
			for _, el := range arr {
				expandValue(el, root, fileBase, visited, depth)
			}
		}
	}
}

func expandObject(node, root any, fileBase string, visited map[string]bool, depth int) {
	if ref, ok := refOf(node); ok {
		if frag, local := localFragment(ref, fileBase); local && !visited[frag] {
			segs, err := jsonptr.Parse(frag)
			if err == nil {
				if target, err := jsonptr.Eval(root, segs); err == nil && ordered.IsObject(target) {
					visited[frag] = true
					resolved := deepCopy(target)
					expandValue(resolved, root, fileBase, visited, depth-1)
					delete(visited, frag)
					mergeInto(node, resolved)
					// merged content was expanded under the cycle
					// guard already; re-walking it could diverge
					return
				}
			}
		}
	}
	for _, k := range ordered.KeysOf(node) {
		v, _ := ordered.Lookup(node, k)
		expandValue(v, root, fileBase, visited, depth-1)
	}
}

func refOf(node any) (string, bool) {
	v, ok := ordered.Lookup(node, "$ref")
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// localFragment reports whether ref targets the current document and,
// if so, returns its pointer fragment.
func localFragment(ref, fileBase string) (string, bool) {
	if fileBase == "" {
		fileBase = defaultBaseURI
	}
	docURI, frag, err := reftable.Canonicalize(fileBase, ref)
	if err != nil {
		return "", false
	}
	baseDoc, _, err := reftable.Canonicalize(fileBase, "")
	if err != nil || docURI != baseDoc {
		return "", false
	}
	return frag, true
}

// mergeInto copies resolved fields into node, preferring fields already
// present in node, and drops the consumed $ref.
func mergeInto(node, resolved any) {
	switch t := node.(type) {
	case *ordered.Object:
		t.Delete("$ref")
		for _, k := range ordered.KeysOf(resolved) {
			if _, exists := t.Get(k); !exists {
				v, _ := ordered.Lookup(resolved, k)
				t.Set(k, v)
			}
		}
	case map[string]any:
		delete(t, "$ref")
		for _, k := range ordered.KeysOf(resolved) {
			if _, exists := t[k]; !exists {
				v, _ := ordered.Lookup(resolved, k)
				t[k] = v
			}
		}
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case *ordered.Object:
		out := ordered.New()
		for _, k := range t.Keys() {
			val, _ := t.Get(k)
			out.Set(k, deepCopy(val))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = deepCopy(el)
		}
		return out
	}
	return v
}
