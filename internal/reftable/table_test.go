package reftable

import (
	"errors"
	"sort"
	"testing"

	"github.com/schemakit/schemakit/jsonschema"
)

func TestClaimSingleFlight(t *testing.T) {
	tb := New()
	if !tb.Claim("https://example.com/a.json") {
		t.Fatal("first claim should win")
	}
	if tb.Claim("https://example.com/a.json") {
		t.Error("second claim should be a no-op")
	}
	if _, ok := tb.Doc("https://example.com/a.json"); ok {
		t.Error("pending entry must not be visible as a document")
	}

	tb.StoreDoc(&Doc{URI: "https://example.com/a.json", Raw: map[string]any{}})
	if tb.Claim("https://example.com/a.json") {
		t.Error("claim after store should be a no-op")
	}
	if _, ok := tb.Doc("https://example.com/a.json"); !ok {
		t.Error("stored document not visible")
	}
}

func TestFailDoc(t *testing.T) {
	tb := New()
	tb.Claim("https://example.com/bad.json")
	tb.FailDoc("https://example.com/bad.json", errors.New("boom"))
	if _, ok := tb.Doc("https://example.com/bad.json"); ok {
		t.Error("failed entry must not be visible as a document")
	}
	if tb.Claim("https://example.com/bad.json") {
		t.Error("failed entry still counts as claimed")
	}
	if tb.Len() != 0 {
		t.Errorf("Len = %d, want 0", tb.Len())
	}
}

func TestAliasDoc(t *testing.T) {
	tb := New()
	doc := &Doc{URI: "https://mirror.example.com/s.json", Raw: map[string]any{}}
	tb.StoreDoc(doc)
	tb.AliasDoc("https://example.com/canonical.json", doc)

	got, ok := tb.Doc("https://example.com/canonical.json")
	if !ok || got != doc {
		t.Fatal("alias does not resolve to the original document")
	}
	if tb.Claim("https://example.com/canonical.json") {
		t.Error("alias should count as claimed")
	}
	if tb.Len() != 1 {
		t.Errorf("Len = %d, want 1 (aliases excluded)", tb.Len())
	}
	uris := tb.DocURIs()
	sort.Strings(uris)
	if len(uris) != 1 || uris[0] != "https://mirror.example.com/s.json" {
		t.Errorf("DocURIs = %v", uris)
	}
}

func TestAddNodeFirstWins(t *testing.T) {
	tb := New()
	a := &jsonschema.Node{}
	b := &jsonschema.Node{}
	if got := tb.AddNode("u#/a", a); got != a {
		t.Fatal("first AddNode should return its argument")
	}
	if got := tb.AddNode("u#/a", b); got != a {
		t.Error("second AddNode should keep the first node")
	}
	if n, ok := tb.Node("u#/a"); !ok || n != a {
		t.Error("Node lookup mismatch")
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		base, ref string
		doc, frag string
	}{
		{"https://example.com/a/b.json", "", "https://example.com/a/b.json", ""},
		{"https://example.com/a/b.json", "#", "https://example.com/a/b.json", ""},
		{"https://example.com/a/b.json", "#/defs/x", "https://example.com/a/b.json", "/defs/x"},
		{"https://example.com/a/b.json", "c.json", "https://example.com/a/c.json", ""},
		{"https://example.com/a/b.json", "c.json#/x", "https://example.com/a/c.json", "/x"},
		{"https://example.com/a/b.json", "/top.json", "https://example.com/top.json", ""},
		{"https://example.com/a/b.json", "https://other.com/d.json#/y", "https://other.com/d.json", "/y"},
		{"https://example.com/a/b.json", "#/", "https://example.com/a/b.json", ""},
		{"mem:///schema", "#/definitions/n", "mem:///schema", "/definitions/n"},
	}
	for _, tc := range tests {
		doc, frag, err := Canonicalize(tc.base, tc.ref)
		if err != nil {
			t.Errorf("Canonicalize(%q, %q): %v", tc.base, tc.ref, err)
			continue
		}
		if doc != tc.doc || frag != tc.frag {
			t.Errorf("Canonicalize(%q, %q) = (%q, %q), want (%q, %q)",
				tc.base, tc.ref, doc, frag, tc.doc, tc.frag)
		}
	}
}

func TestKey(t *testing.T) {
	if got := Key("https://example.com/a.json", "/x"); got != "https://example.com/a.json#/x" {
		t.Errorf("Key = %q", got)
	}
	if got := Key("https://example.com/a.json", ""); got != "https://example.com/a.json#" {
		t.Errorf("Key = %q", got)
	}
}
