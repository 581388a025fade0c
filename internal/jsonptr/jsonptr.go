// Package jsonptr evaluates RFC6901 JSON Pointers against decoded
// documents (plain values and internal/ordered objects).
package jsonptr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/schemakit/schemakit/internal/ordered"
)

// Parse splits a JSON Pointer into unescaped segments. The empty pointer
// ("" or "#") yields nil. A leading '#' is stripped.
func Parse(ptr string) ([]string, error) {
	if len(ptr) > 0 && ptr[0] == '#' {
		ptr = ptr[1:]
	}
	if ptr == "" {
		return nil, nil
	}
	if ptr[0] != '/' {
		return nil, fmt.Errorf("jsonptr: pointer %q must start with '/'", ptr)
	}
	raw := strings.Split(ptr[1:], "/")
	segs := make([]string, len(raw))
	for i, s := range raw {
		segs[i] = Unescape(s)
	}
	return segs, nil
}

// Eval walks doc following the pointer segments. It returns an error for a
// missing key, out-of-range index, or descent into a scalar.
func Eval(doc any, segs []string) (any, error) {
	cur := doc
	for i, seg := range segs {
		switch {
		case ordered.IsObject(cur):
			v, ok := ordered.Lookup(cur, seg)
			if !ok {
				return nil, fmt.Errorf("jsonptr: missing key %q at /%s", seg, strings.Join(segsEsc(segs[:i+1]), "/"))
			}
			cur = v
		default:
			arr, ok := cur.([]any)
			if !ok {
				return nil, fmt.Errorf("jsonptr: cannot descend into %T with %q", cur, seg)
			}
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(arr) {
				return nil, fmt.Errorf("jsonptr: index %q out of range", seg)
			}
			cur = arr[idx]
		}
	}
	return cur, nil
}

// Escape applies RFC6901 escaping to a single token.
func Escape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}

// Join renders segments back into a pointer string.
func Join(segs []string) string {
	if len(segs) == 0 {
		return ""
	}
	return "/" + strings.Join(segsEsc(segs), "/")
}

func segsEsc(segs []string) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = Escape(s)
	}
	return out
}
