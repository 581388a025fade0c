// Package reftable implements the cache backing reference resolution:
// canonical URI -> schema node. The table owns every resolved node;
// schema nodes elsewhere link into it by canonical URI key, which is
// what makes cyclic schemas representable without cyclic ownership.
package reftable

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/schemakit/schemakit/jsonschema"
)

// Doc is one fully fetched and decoded schema document.
type Doc struct {
	URI  string // canonical document URI (no fragment)
	Raw  any    // decoded document value
	Root *jsonschema.Node
}

type docEntry struct {
	pending bool
	alias   bool
	doc     *Doc
	err     error
}

// Table maps canonical URIs to resolved schema nodes and documents.
// Claim/StoreDoc give the resolution loop single-flight semantics: at
// most one fetch is ever issued per canonical document URI.
type Table struct {
	mu    sync.RWMutex
	docs  map[string]*docEntry
	nodes map[string]*jsonschema.Node
}

// New returns an empty Table.
func New() *Table {
	return &Table{
		docs:  make(map[string]*docEntry),
		nodes: make(map[string]*jsonschema.Node),
	}
}

// Claim records a pending placeholder for uri. It returns true when the
// caller must issue the fetch; false when the document is already
// resolved or in flight.
func (t *Table) Claim(uri string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.docs[uri]; ok {
		return false
	}
	t.docs[uri] = &docEntry{pending: true}
	return true
}

// StoreDoc replaces the pending placeholder with the resolved document.
func (t *Table) StoreDoc(doc *Doc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.docs[doc.URI] = &docEntry{doc: doc}
}

// AliasDoc registers doc under an additional canonical URI, used when a
// document declares an absolute "id" different from its fetch location.
// The alias also counts as claimed, so no fetch is issued for it.
func (t *Table) AliasDoc(uri string, doc *Doc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.docs[uri]; ok {
		return
	}
	t.docs[uri] = &docEntry{alias: true, doc: doc}
}

// FailDoc records a fetch or decode failure for uri.
func (t *Table) FailDoc(uri string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.docs[uri] = &docEntry{err: err}
}

// Doc returns the resolved document for uri, when present.
func (t *Table) Doc(uri string) (*Doc, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.docs[uri]
	if !ok || e.pending || e.err != nil {
		return nil, false
	}
	return e.doc, true
}

// AddNode stores a resolved node under its canonical URI. The first
// registration wins; later calls for the same URI are no-ops so that
// every referrer shares one node identity.
func (t *Table) AddNode(canonical string, n *jsonschema.Node) *jsonschema.Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	if prev, ok := t.nodes[canonical]; ok {
		return prev
	}
	t.nodes[canonical] = n
	return n
}

// Node returns the resolved node registered under the canonical URI.
func (t *Table) Node(canonical string) (*jsonschema.Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[canonical]
	return n, ok
}

// Len returns the number of resolved documents (pending and failed
// entries excluded).
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, e := range t.docs {
		if !e.pending && !e.alias && e.err == nil {
			n++
		}
	}
	return n
}

// DocURIs returns the canonical URIs of all resolved documents.
func (t *Table) DocURIs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.docs))
	for uri, e := range t.docs {
		if !e.pending && !e.alias && e.err == nil {
			out = append(out, uri)
		}
	}
	return out
}

// ---- canonical URI arithmetic ----

// Canonicalize resolves ref against base per RFC3986 and splits the
// result into the canonical document URI (fragment stripped) and the
// normalized JSON Pointer fragment. An empty ref resolves to the base
// document itself.
func Canonicalize(base, ref string) (docURI, fragment string, err error) {
	bu, err := url.Parse(base)
	if err != nil {
		return "", "", fmt.Errorf("reftable: invalid base URI %q: %w", base, err)
	}
	// fragment-only refs never change the document
	if strings.HasPrefix(ref, "#") || ref == "" {
		docURI = stripFragment(bu)
		fragment = normalizeFragment(strings.TrimPrefix(ref, "#"))
		return docURI, fragment, nil
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return "", "", fmt.Errorf("reftable: invalid $ref %q: %w", ref, err)
	}
	abs := bu.ResolveReference(ru)
	fragment = normalizeFragment(abs.Fragment)
	docURI = stripFragment(abs)
	return docURI, fragment, nil
}

// Key joins a canonical document URI and pointer fragment into the
// table key form.
func Key(docURI, fragment string) string {
	return docURI + "#" + fragment
}

func stripFragment(u *url.URL) string {
	c := *u
	c.Fragment = ""
	return c.String()
}

func normalizeFragment(f string) string {
	if f == "" || f == "/" {
		return ""
	}
	return f
}
