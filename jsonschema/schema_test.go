package jsonschema_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/schemakit/schemakit/internal/jsondec"
	"github.com/schemakit/schemakit/jsonschema"
)

func parse(t *testing.T, src string) *jsonschema.Node {
	t.Helper()
	raw, err := jsondec.Decode([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	n, err := jsonschema.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return n
}

func TestParseBooleanSchemas(t *testing.T) {
	for _, b := range []bool{true, false} {
		n, err := jsonschema.Parse(b)
		if err != nil {
			t.Fatalf("parse %v: %v", b, err)
		}
		if n.BoolValue == nil || *n.BoolValue != b {
			t.Errorf("BoolValue = %v", n.BoolValue)
		}
	}
	if _, err := jsonschema.Parse("nope"); err == nil {
		t.Error("expected error for a non-schema value")
	}
}

func TestParseKeywords(t *testing.T) {
	n := parse(t, `{
		"id": "https://example.com/s.json",
		"type": ["string", "null"],
		"minLength": 1,
		"maxLength": 10,
		"pattern": "^x",
		"format": "email",
		"minimum": 0.5,
		"exclusiveMinimum": true,
		"title": "sample",
		"default": "x"
	}`)
	if n.ID != "https://example.com/s.json" {
		t.Errorf("ID = %q", n.ID)
	}
	if !reflect.DeepEqual(n.Types, []string{"string", "null"}) {
		t.Errorf("Types = %v", n.Types)
	}
	if n.MinLength == nil || *n.MinLength != 1 || n.MaxLength == nil || *n.MaxLength != 10 {
		t.Errorf("lengths = %v %v", n.MinLength, n.MaxLength)
	}
	if n.Pattern == nil || n.PatternRaw != "^x" || !n.Pattern.MatchString("xy") {
		t.Errorf("pattern = %v %q", n.Pattern, n.PatternRaw)
	}
	if n.Minimum == nil || *n.Minimum != 0.5 || !n.ExclusiveMin {
		t.Errorf("minimum = %v excl %v", n.Minimum, n.ExclusiveMin)
	}
	if n.Format != "email" || n.Title != "sample" || n.Default != "x" {
		t.Errorf("metadata = %q %q %v", n.Format, n.Title, n.Default)
	}
}

func TestParsePropertiesKeepDocumentOrder(t *testing.T) {
	n := parse(t, `{
		"properties": {
			"zeta": {"type": "string"},
			"alpha": {"type": "number"},
			"mid": {"type": "boolean"}
		}
	}`)
	var names []string
	for _, p := range n.Properties {
		names = append(names, p.Name)
	}
	if !reflect.DeepEqual(names, []string{"zeta", "alpha", "mid"}) {
		t.Errorf("property order = %v", names)
	}
}

func TestParseItemsForms(t *testing.T) {
	n := parse(t, `{"items": {"type": "number"}}`)
	if n.Items == nil || n.TupleItems != nil {
		t.Errorf("single form: %v %v", n.Items, n.TupleItems)
	}

	n = parse(t, `{"items": [{"type": "string"}, true], "additionalItems": false}`)
	if len(n.TupleItems) != 2 || n.Items != nil {
		t.Errorf("tuple form: %v %v", n.Items, n.TupleItems)
	}
	if !n.NoExtraItems {
		t.Error("additionalItems: false not recorded")
	}

	n = parse(t, `{"additionalItems": {"type": "null"}}`)
	if n.AdditionalItems == nil || n.NoExtraItems {
		t.Errorf("schema-form additionalItems: %v %v", n.AdditionalItems, n.NoExtraItems)
	}
}

func TestParseDependencies(t *testing.T) {
	n := parse(t, `{
		"dependencies": {
			"a": ["b", "c"],
			"d": {"required": ["e"]}
		}
	}`)
	if len(n.Dependencies) != 2 {
		t.Fatalf("deps = %v", n.Dependencies)
	}
	if n.Dependencies[0].Name != "a" || !reflect.DeepEqual(n.Dependencies[0].Keys, []string{"b", "c"}) {
		t.Errorf("key dep = %+v", n.Dependencies[0])
	}
	if n.Dependencies[1].Name != "d" || n.Dependencies[1].Schema == nil {
		t.Errorf("schema dep = %+v", n.Dependencies[1])
	}
}

func TestParseRejectsMalformedKeywords(t *testing.T) {
	bad := []string{
		`{"type": 3}`,
		`{"type": ["string", 1]}`,
		`{"enum": "x"}`,
		`{"minimum": "low"}`,
		`{"minLength": 1.5}`,
		`{"pattern": "(["}`,
		`{"uniqueItems": "yes"}`,
		`{"required": [1]}`,
		`{"patternProperties": {"([": {}}}`,
		`{"allOf": {}}`,
	}
	for _, src := range bad {
		raw, err := jsondec.Decode([]byte(src))
		if err != nil {
			t.Fatalf("decode %s: %v", src, err)
		}
		if _, err := jsonschema.Parse(raw); err == nil {
			t.Errorf("Parse(%s): expected error", src)
		}
	}
}

func TestSubnodesReachesEveryChild(t *testing.T) {
	n := parse(t, `{
		"properties": {"a": {}},
		"patternProperties": {"^x": {}},
		"additionalProperties": {},
		"items": {},
		"dependencies": {"d": {}},
		"allOf": [{}],
		"anyOf": [{}],
		"oneOf": [{}],
		"not": {}
	}`)
	if got := len(n.Subnodes()); got != 9 {
		t.Errorf("Subnodes() returned %d children, want 9", got)
	}
}

func TestToFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{json.Number("2.5"), 2.5, true},
		{float64(1), 1, true},
		{int(3), 3, true},
		{int64(4), 4, true},
		{"5", 0, false},
		{true, 0, false},
	}
	for _, tc := range cases {
		got, ok := jsonschema.ToFloat(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ToFloat(%#v) = %v, %v", tc.in, got, ok)
		}
	}
}
