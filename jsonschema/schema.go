// Package jsonschema holds the in-memory representation of one JSON
// Schema fragment (draft-04 compatible subset). A Node keeps both the
// raw decoded value and the keyword set extracted from it; diagnostics
// can always report the original form.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/schemakit/schemakit/internal/ordered"
)

// Property is one declared object property, in document order.
type Property struct {
	Name   string
	Schema *Node
}

// PatternProperty is one patternProperties entry with its compiled regexp.
type PatternProperty struct {
	Raw    string
	Re     *regexp.Regexp
	Schema *Node
}

// Dependency is one dependencies entry: either a key list or a schema.
type Dependency struct {
	Name   string
	Keys   []string // property dependency
	Schema *Node    // schema dependency (nil when Keys is set)
}

// Node is an immutable parsed schema fragment. After reference
// resolution a node carrying $ref is annotated with the canonical URI
// of its target (RefURI); the raw pointer text stays in Ref so both
// forms remain distinguishable.
type Node struct {
	Raw any // original decoded fragment (bool, map or *ordered.Object)

	// Boolean schemas: "true" allows everything, "false" nothing.
	BoolValue *bool

	Ref    string // original $ref text, "" when absent
	RefURI string // canonical target URI, set during resolution

	ID string // draft-04 "id" (base URI override)

	Types    []string // "type", normalized to a list
	Enum     []any
	Const    any
	HasConst bool

	Minimum      *float64
	Maximum      *float64
	ExclusiveMin bool // draft-04 boolean form
	ExclusiveMax bool
	MultipleOf   *float64

	MinLength  *int
	MaxLength  *int
	Pattern    *regexp.Regexp
	PatternRaw string
	Format     string

	Items           *Node   // single-schema form
	TupleItems      []*Node // tuple form
	AdditionalItems *Node
	NoExtraItems    bool // additionalItems: false
	MinItems        *int
	MaxItems        *int
	UniqueItems     bool

	Properties      []Property
	PatternProps    []PatternProperty
	AdditionalProps *Node
	NoExtraProps    bool // additionalProperties: false
	Required        []string
	MinProperties   *int
	MaxProperties   *int
	Dependencies    []Dependency

	AllOf []*Node
	AnyOf []*Node
	OneOf []*Node
	Not   *Node

	Title       string
	Description string
	Default     any
}

// IsRef reports whether the node is a reference (resolved or not).
func (n *Node) IsRef() bool { return n.Ref != "" }

// IsResolvedRef reports whether the node is a lazy back-reference into
// the reference table.
func (n *Node) IsResolvedRef() bool { return n.RefURI != "" }

// Parse builds a Node from a decoded schema value: a boolean, a plain
// map[string]any, or an insertion-ordered object. Keyword values with the
// wrong shape (for example a non-string pattern) are reported as errors,
// since they make the schema itself invalid.
func Parse(v any) (*Node, error) {
	switch t := v.(type) {
	case bool:
		b := t
		return &Node{Raw: v, BoolValue: &b}, nil
	}
	if !ordered.IsObject(v) {
		return nil, fmt.Errorf("jsonschema: schema must be an object or boolean, got %T", v)
	}
	n := &Node{Raw: v}
	if err := n.extract(v); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) extract(obj any) error {
	if s, ok := getString(obj, "$ref"); ok {
		n.Ref = s
	}
	if s, ok := getString(obj, "id"); ok {
		n.ID = s
	}
	if s, ok := getString(obj, "title"); ok {
		n.Title = s
	}
	if s, ok := getString(obj, "description"); ok {
		n.Description = s
	}
	if v, ok := ordered.Lookup(obj, "default"); ok {
		n.Default = v
	}

	if v, ok := ordered.Lookup(obj, "type"); ok {
		switch t := v.(type) {
		case string:
			n.Types = []string{t}
		case []any:
			for _, e := range t {
				s, ok := e.(string)
				if !ok {
					return fmt.Errorf("jsonschema: type entries must be strings, got %T", e)
				}
				n.Types = append(n.Types, s)
			}
		default:
			return fmt.Errorf("jsonschema: type must be a string or array, got %T", v)
		}
	}
	if v, ok := ordered.Lookup(obj, "enum"); ok {
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("jsonschema: enum must be an array, got %T", v)
		}
		n.Enum = arr
	}
	if v, ok := ordered.Lookup(obj, "const"); ok {
		n.Const = v
		n.HasConst = true
	}

	var err error
	if n.Minimum, err = getNumber(obj, "minimum"); err != nil {
		return err
	}
	if n.Maximum, err = getNumber(obj, "maximum"); err != nil {
		return err
	}
	if n.MultipleOf, err = getNumber(obj, "multipleOf"); err != nil {
		return err
	}
	if v, ok := ordered.Lookup(obj, "exclusiveMinimum"); ok {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("jsonschema: exclusiveMinimum must be a boolean, got %T", v)
		}
		n.ExclusiveMin = b
	}
	if v, ok := ordered.Lookup(obj, "exclusiveMaximum"); ok {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("jsonschema: exclusiveMaximum must be a boolean, got %T", v)
		}
		n.ExclusiveMax = b
	}

	if n.MinLength, err = getInt(obj, "minLength"); err != nil {
		return err
	}
	if n.MaxLength, err = getInt(obj, "maxLength"); err != nil {
		return err
	}
	if s, ok := getString(obj, "pattern"); ok {
		re, err := regexp.Compile(s)
		if err != nil {
			return fmt.Errorf("jsonschema: invalid pattern %q: %w", s, err)
		}
		n.Pattern = re
		n.PatternRaw = s
	}
	if s, ok := getString(obj, "format"); ok {
		n.Format = s
	}

	if err := n.extractArrayKeywords(obj); err != nil {
		return err
	}
	if err := n.extractObjectKeywords(obj); err != nil {
		return err
	}
	return n.extractCombinators(obj)
}

func (n *Node) extractArrayKeywords(obj any) error {
	var err error
	if v, ok := ordered.Lookup(obj, "items"); ok {
		switch t := v.(type) {
		case []any:
			for i, e := range t {
				sub, err := Parse(e)
				if err != nil {
					return fmt.Errorf("jsonschema: items[%d]: %w", i, err)
				}
				n.TupleItems = append(n.TupleItems, sub)
			}
		default:
			sub, err := Parse(v)
			if err != nil {
				return fmt.Errorf("jsonschema: items: %w", err)
			}
			n.Items = sub
		}
	}
	if v, ok := ordered.Lookup(obj, "additionalItems"); ok {
		if b, ok := v.(bool); ok {
			n.NoExtraItems = !b
		} else {
			sub, err := Parse(v)
			if err != nil {
				return fmt.Errorf("jsonschema: additionalItems: %w", err)
			}
			n.AdditionalItems = sub
		}
	}
	if n.MinItems, err = getInt(obj, "minItems"); err != nil {
		return err
	}
	if n.MaxItems, err = getInt(obj, "maxItems"); err != nil {
		return err
	}
	if v, ok := ordered.Lookup(obj, "uniqueItems"); ok {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("jsonschema: uniqueItems must be a boolean, got %T", v)
		}
		n.UniqueItems = b
	}
	return nil
}

func (n *Node) extractObjectKeywords(obj any) error {
	var err error
	if v, ok := ordered.Lookup(obj, "properties"); ok {
		if !ordered.IsObject(v) {
			return fmt.Errorf("jsonschema: properties must be an object, got %T", v)
		}
		for _, name := range ordered.KeysOf(v) {
			raw, _ := ordered.Lookup(v, name)
			sub, err := Parse(raw)
			if err != nil {
				return fmt.Errorf("jsonschema: properties/%s: %w", name, err)
			}
			n.Properties = append(n.Properties, Property{Name: name, Schema: sub})
		}
	}
	if v, ok := ordered.Lookup(obj, "patternProperties"); ok {
		if !ordered.IsObject(v) {
			return fmt.Errorf("jsonschema: patternProperties must be an object, got %T", v)
		}
		for _, pat := range ordered.KeysOf(v) {
			raw, _ := ordered.Lookup(v, pat)
			re, err := regexp.Compile(pat)
			if err != nil {
				return fmt.Errorf("jsonschema: invalid patternProperties key %q: %w", pat, err)
			}
			sub, err := Parse(raw)
			if err != nil {
				return fmt.Errorf("jsonschema: patternProperties/%s: %w", pat, err)
			}
			n.PatternProps = append(n.PatternProps, PatternProperty{Raw: pat, Re: re, Schema: sub})
		}
	}
	if v, ok := ordered.Lookup(obj, "additionalProperties"); ok {
		if b, ok := v.(bool); ok {
			n.NoExtraProps = !b
		} else {
			sub, err := Parse(v)
			if err != nil {
				return fmt.Errorf("jsonschema: additionalProperties: %w", err)
			}
			n.AdditionalProps = sub
		}
	}
	if v, ok := ordered.Lookup(obj, "required"); ok {
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("jsonschema: required must be an array, got %T", v)
		}
		for _, e := range arr {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("jsonschema: required entries must be strings, got %T", e)
			}
			n.Required = append(n.Required, s)
		}
	}
	if n.MinProperties, err = getInt(obj, "minProperties"); err != nil {
		return err
	}
	if n.MaxProperties, err = getInt(obj, "maxProperties"); err != nil {
		return err
	}
	if v, ok := ordered.Lookup(obj, "dependencies"); ok {
		if !ordered.IsObject(v) {
			return fmt.Errorf("jsonschema: dependencies must be an object, got %T", v)
		}
		for _, name := range ordered.KeysOf(v) {
			raw, _ := ordered.Lookup(v, name)
			switch t := raw.(type) {
			case []any:
				dep := Dependency{Name: name}
				for _, e := range t {
					s, ok := e.(string)
					if !ok {
						return fmt.Errorf("jsonschema: dependencies/%s entries must be strings, got %T", name, e)
					}
					dep.Keys = append(dep.Keys, s)
				}
				n.Dependencies = append(n.Dependencies, dep)
			default:
				sub, err := Parse(raw)
				if err != nil {
					return fmt.Errorf("jsonschema: dependencies/%s: %w", name, err)
				}
				n.Dependencies = append(n.Dependencies, Dependency{Name: name, Schema: sub})
			}
		}
	}
	return nil
}

func (n *Node) extractCombinators(obj any) error {
	for _, kw := range []string{"allOf", "anyOf", "oneOf"} {
		v, ok := ordered.Lookup(obj, kw)
		if !ok {
			continue
		}
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("jsonschema: %s must be an array, got %T", kw, v)
		}
		subs := make([]*Node, 0, len(arr))
		for i, e := range arr {
			sub, err := Parse(e)
			if err != nil {
				return fmt.Errorf("jsonschema: %s[%d]: %w", kw, i, err)
			}
			subs = append(subs, sub)
		}
		switch kw {
		case "allOf":
			n.AllOf = subs
		case "anyOf":
			n.AnyOf = subs
		case "oneOf":
			n.OneOf = subs
		}
	}
	if v, ok := ordered.Lookup(obj, "not"); ok {
		sub, err := Parse(v)
		if err != nil {
			return fmt.Errorf("jsonschema: not: %w", err)
		}
		n.Not = sub
	}
	return nil
}

// Subnodes returns every directly embedded child schema, in a fixed
// order. Reference annotation walks use it to reach all nested $refs.
func (n *Node) Subnodes() []*Node {
	var out []*Node
	add := func(c *Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	for _, p := range n.Properties {
		add(p.Schema)
	}
	for _, p := range n.PatternProps {
		add(p.Schema)
	}
	add(n.AdditionalProps)
	add(n.Items)
	for _, c := range n.TupleItems {
		add(c)
	}
	add(n.AdditionalItems)
	for _, d := range n.Dependencies {
		add(d.Schema)
	}
	for _, c := range n.AllOf {
		add(c)
	}
	for _, c := range n.AnyOf {
		add(c)
	}
	for _, c := range n.OneOf {
		add(c)
	}
	add(n.Not)
	return out
}

// ---- extraction helpers ----

func getString(obj any, key string) (string, bool) {
	v, ok := ordered.Lookup(obj, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func getNumber(obj any, key string) (*float64, error) {
	v, ok := ordered.Lookup(obj, key)
	if !ok {
		return nil, nil
	}
	f, ok := ToFloat(v)
	if !ok {
		return nil, fmt.Errorf("jsonschema: %s must be a number, got %T", key, v)
	}
	return &f, nil
}

func getInt(obj any, key string) (*int, error) {
	v, ok := ordered.Lookup(obj, key)
	if !ok {
		return nil, nil
	}
	f, ok := ToFloat(v)
	if !ok || f != float64(int(f)) {
		return nil, fmt.Errorf("jsonschema: %s must be an integer, got %v", key, v)
	}
	i := int(f)
	return &i, nil
}

// ToFloat converts any supported numeric representation to float64.
func ToFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}
