package schemakit_test

import (
	"context"
	"strings"
	"testing"

	schemakit "github.com/schemakit/schemakit"
)

func TestCustomFormat(t *testing.T) {
	upper := func(s string) bool { return s == strings.ToUpper(s) }
	e := schemakit.New(schemakit.Options{
		Formats: map[string]schemakit.FormatFunc{"shouting": upper},
	})
	g, err := e.Load(context.Background(), []byte(`{"type": "string", "format": "shouting"}`), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if iss, _ := g.Validate("LOUD"); len(iss) != 0 {
		t.Errorf("LOUD should pass: %v", iss)
	}
	if iss, _ := g.Validate("quiet"); len(iss) != 1 || iss[0].Keyword != schemakit.KeywordFormat {
		t.Errorf("quiet should fail: %v", iss)
	}
}

func TestFormatOverrideBuiltin(t *testing.T) {
	never := func(string) bool { return false }
	e := schemakit.New(schemakit.Options{
		Formats: map[string]schemakit.FormatFunc{"email": never},
	})
	g, err := e.Load(context.Background(), []byte(`{"type": "string", "format": "email"}`), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if iss, _ := g.Validate("a@example.com"); len(iss) != 1 {
		t.Errorf("override not applied: %v", iss)
	}
}

func TestFormatOnlyAppliesToStrings(t *testing.T) {
	g := mustLoad(t, `{"format": "email"}`)
	if iss := mustValidate(t, g, float64(42)); len(iss) != 0 {
		t.Errorf("format checked on a non-string: %v", iss)
	}
}

func TestBuiltinFormatEdgeCases(t *testing.T) {
	cases := []struct {
		format string
		value  string
		ok     bool
	}{
		{"date", "2024-02-29", true},
		{"date", "2023-02-29", false},
		{"time", "23:59:59Z", true},
		{"time", "25:00:00Z", false},
		{"ipv6", "::1", true},
		{"ipv6", "192.168.0.1", false},
		{"regex", "^a+$", true},
		{"regex", "([", false},
		{"hostname", strings.Repeat("a", 64) + ".com", false},
	}
	for _, tc := range cases {
		g := mustLoad(t, `{"type": "string", "format": "`+tc.format+`"}`)
		iss := mustValidate(t, g, tc.value)
		if (len(iss) == 0) != tc.ok {
			t.Errorf("format %s value %q: issues %v, want ok=%v", tc.format, tc.value, iss, tc.ok)
		}
	}
}
