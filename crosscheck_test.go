package schemakit_test

import (
	"context"
	"strings"
	"testing"

	oracle "github.com/santhosh-tekuri/jsonschema/v5"

	schemakit "github.com/schemakit/schemakit"
)

// Verdict parity against an independent draft-04 implementation. Only
// the accept/reject outcome is compared; error shapes differ by design.
func TestCrosscheckDraft4(t *testing.T) {
	cases := []struct {
		name   string
		schema string
		values []any
	}{
		{
			name:   "types",
			schema: `{"type": ["string", "integer"]}`,
			values: []any{"s", float64(3), float64(3.5), true, nil},
		},
		{
			name:   "numeric bounds",
			schema: `{"type": "number", "minimum": 0, "maximum": 10, "exclusiveMinimum": true}`,
			values: []any{float64(0), float64(0.1), float64(10), float64(11)},
		},
		{
			name:   "string bounds",
			schema: `{"type": "string", "minLength": 2, "maxLength": 4, "pattern": "^[a-z]+$"}`,
			values: []any{"ab", "abcd", "a", "abcde", "AB"},
		},
		{
			name:   "enum",
			schema: `{"enum": ["a", 1, [true]]}`,
			values: []any{"a", float64(1), []any{true}, "b", float64(2)},
		},
		{
			name: "object shape",
			schema: `{
				"type": "object",
				"required": ["id"],
				"properties": {"id": {"type": "integer"}},
				"additionalProperties": false
			}`,
			values: []any{
				map[string]any{"id": float64(1)},
				map[string]any{},
				map[string]any{"id": float64(1), "x": true},
				map[string]any{"id": "one"},
			},
		},
		{
			name:   "array shape",
			schema: `{"type": "array", "items": {"type": "number"}, "minItems": 1, "uniqueItems": true}`,
			values: []any{
				[]any{float64(1), float64(2)},
				[]any{},
				[]any{float64(1), float64(1)},
				[]any{"x"},
			},
		},
		{
			name:   "combinators",
			schema: `{"anyOf": [{"type": "string"}, {"type": "number", "minimum": 5}], "not": {"enum": ["no"]}}`,
			values: []any{"yes", "no", float64(6), float64(3), true},
		},
		{
			name: "local refs",
			schema: `{
				"definitions": {"pos": {"type": "number", "minimum": 0}},
				"type": "object",
				"properties": {"x": {"$ref": "#/definitions/pos"}}
			}`,
			values: []any{
				map[string]any{"x": float64(1)},
				map[string]any{"x": float64(-1)},
				map[string]any{"x": "s"},
			},
		},
		{
			name:   "dependencies",
			schema: `{"type": "object", "dependencies": {"a": ["b"]}}`,
			values: []any{
				map[string]any{"a": float64(1), "b": float64(2)},
				map[string]any{"a": float64(1)},
				map[string]any{"b": float64(2)},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := schemakit.New().Load(context.Background(), []byte(tc.schema), "")
			if err != nil {
				t.Fatalf("load: %v", err)
			}

			c := oracle.NewCompiler()
			c.Draft = oracle.Draft4
			if err := c.AddResource("schema.json", strings.NewReader(tc.schema)); err != nil {
				t.Fatalf("oracle add: %v", err)
			}
			ref, err := c.Compile("schema.json")
			if err != nil {
				t.Fatalf("oracle compile: %v", err)
			}

			for _, v := range tc.values {
				iss, err := g.Validate(v)
				if err != nil {
					t.Fatalf("validate %v: %v", v, err)
				}
				ours := len(iss) == 0
				theirs := ref.Validate(v) == nil
				if ours != theirs {
					t.Errorf("value %#v: verdict %v, oracle says %v (issues %v)", v, ours, theirs, iss)
				}
			}
		})
	}
}
