// Package ordered provides a string-keyed object that preserves key
// insertion order. Decoded schema documents use it so that validation
// errors are reported in document order.
package ordered

import "sort"

// Object is an insertion-ordered string-keyed map.
type Object struct {
	keys []string
	m    map[string]any
}

// New returns an empty Object.
func New() *Object {
	return &Object{m: make(map[string]any)}
}

// Set stores v under k, keeping the first-seen position for repeated keys.
func (o *Object) Set(k string, v any) {
	if _, ok := o.m[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.m[k] = v
}

// Delete removes k, preserving the order of the remaining keys.
func (o *Object) Delete(k string) {
	if _, ok := o.m[k]; !ok {
		return
	}
	delete(o.m, k)
	for i, key := range o.keys {
		if key == k {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Get returns the value stored under k.
func (o *Object) Get(k string) (any, bool) {
	v, ok := o.m[k]
	return v, ok
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Keys returns the keys in insertion order. The slice is shared; callers
// must not mutate it.
func (o *Object) Keys() []string { return o.keys }

// ---- helpers over "object-like" values ----
//
// Schema fragments may arrive as *Object (decoded by this module) or as a
// plain map[string]any supplied by the caller. These helpers give both a
// single deterministic view: *Object iterates in insertion order, plain
// maps in sorted key order.

// Lookup fetches a key from an *Object or map[string]any.
func Lookup(v any, key string) (any, bool) {
	switch t := v.(type) {
	case *Object:
		return t.Get(key)
	case map[string]any:
		val, ok := t[key]
		return val, ok
	}
	return nil, false
}

// IsObject reports whether v is object-like.
func IsObject(v any) bool {
	switch v.(type) {
	case *Object, map[string]any:
		return true
	}
	return false
}

// KeysOf returns the deterministic key sequence of an object-like value.
func KeysOf(v any) []string {
	switch t := v.(type) {
	case *Object:
		return t.Keys()
	case map[string]any:
		ks := make([]string, 0, len(t))
		for k := range t {
			ks = append(ks, k)
		}
		sort.Strings(ks)
		return ks
	}
	return nil
}

// LenOf returns the number of keys of an object-like value.
func LenOf(v any) int {
	switch t := v.(type) {
	case *Object:
		return t.Len()
	case map[string]any:
		return len(t)
	}
	return 0
}
