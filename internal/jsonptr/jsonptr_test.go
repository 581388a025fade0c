package jsonptr

import (
	"reflect"
	"testing"

	"github.com/schemakit/schemakit/internal/ordered"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want []string
		err  bool
	}{
		{"", nil, false},
		{"#", nil, false},
		{"/a/b", []string{"a", "b"}, false},
		{"#/a/b", []string{"a", "b"}, false},
		{"/a~1b/c~0d", []string{"a/b", "c~d"}, false},
		{"/", []string{""}, false},
		{"a/b", nil, true},
		{"#a", nil, true},
	}
	for _, tc := range tests {
		got, err := Parse(tc.in)
		if tc.err {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tc.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestEval(t *testing.T) {
	doc := map[string]any{
		"a": map[string]any{
			"list": []any{"x", map[string]any{"deep": true}},
		},
	}
	v, err := Eval(doc, []string{"a", "list", "1", "deep"})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != true {
		t.Errorf("got %v, want true", v)
	}

	if _, err := Eval(doc, []string{"a", "missing"}); err == nil {
		t.Error("expected error for missing key")
	}
	if _, err := Eval(doc, []string{"a", "list", "9"}); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := Eval(doc, []string{"a", "list", "0", "x"}); err == nil {
		t.Error("expected error descending into a scalar")
	}
}

func TestEvalOrderedObject(t *testing.T) {
	inner := ordered.New()
	inner.Set("k", "v")
	outer := ordered.New()
	outer.Set("obj", inner)

	v, err := Eval(outer, []string{"obj", "k"})
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != "v" {
		t.Errorf("got %v, want v", v)
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, s := range []string{"plain", "a/b", "a~b", "~1", "/~"} {
		if got := Unescape(Escape(s)); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
	if got := Join([]string{"a/b", "c"}); got != "/a~1b/c" {
		t.Errorf("Join = %q", got)
	}
	if got := Join(nil); got != "" {
		t.Errorf("Join(nil) = %q", got)
	}
}
