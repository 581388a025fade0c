package schemakit

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/schemakit/schemakit/internal/jsondec"
	"github.com/schemakit/schemakit/internal/jsonptr"
	"github.com/schemakit/schemakit/internal/ordered"
	"github.com/schemakit/schemakit/internal/reftable"
	"github.com/schemakit/schemakit/internal/yamldec"
	"github.com/schemakit/schemakit/jsonschema"
)

// defaultBaseURI anchors in-memory root schemas that carry no location.
const defaultBaseURI = "mem:///schema"

// Load resolves every reference reachable from root into a Graph.
//
// root may be a decoded schema value (object or boolean), raw JSON
// bytes, or a string URI naming an external document to fetch first.
// baseURI anchors relative references; when empty an in-memory base is
// used and only fragment references can resolve.
//
// External fetches fan out concurrently, but all bookkeeping happens on
// the calling goroutine, which processes completions sequentially. Load
// returns only after the last outstanding fetch relevant to the root
// schema has completed. Cancelling ctx abandons the load; late fetch
// completions are discarded.
func (e *Engine) Load(ctx context.Context, root any, baseURI string) (*Graph, error) {
	if baseURI == "" {
		baseURI = defaultBaseURI
	}
	rootDocURI, _, err := reftable.Canonicalize(baseURI, "")
	if err != nil {
		return nil, &ResolutionError{Reason: ReasonBadSchema, URI: baseURI, Cause: err}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ld := &loader{
		engine:      e,
		table:       reftable.New(),
		completions: make(chan fetchResult),
	}

	switch t := root.(type) {
	case nil:
		return nil, &ResolutionError{Reason: ReasonBadSchema, URI: rootDocURI, Cause: errors.New("nil root schema")}
	case string:
		// the root names an external document; fetch it before anything else
		docURI, _, err := reftable.Canonicalize(baseURI, t)
		if err != nil {
			return nil, &ResolutionError{Reason: ReasonBadSchema, Pointer: t, Cause: err}
		}
		rootDocURI = docURI
		if err := ld.startFetch(ctx, docURI); err != nil {
			return nil, err
		}
	case []byte:
		raw, err := jsondec.Decode(t)
		if err != nil {
			return nil, &ResolutionError{Reason: ReasonDecode, URI: rootDocURI, Cause: err}
		}
		if err := ld.storeDoc(ctx, rootDocURI, raw); err != nil {
			return nil, err
		}
	case json.RawMessage:
		raw, err := jsondec.Decode(t)
		if err != nil {
			return nil, &ResolutionError{Reason: ReasonDecode, URI: rootDocURI, Cause: err}
		}
		if err := ld.storeDoc(ctx, rootDocURI, raw); err != nil {
			return nil, err
		}
	default:
		if err := ld.storeDoc(ctx, rootDocURI, root); err != nil {
			return nil, err
		}
	}

	// fan-in: one logical loop consumes fetch completions sequentially,
	// so the table never sees concurrent writers.
	for ld.outstanding > 0 {
		select {
		case <-ctx.Done():
			return nil, &ResolutionError{Reason: ReasonFetch, Cause: ctx.Err()}
		case res := <-ld.completions:
			ld.outstanding--
			if res.err != nil {
				ld.table.FailDoc(res.uri, res.err)
				return nil, &ResolutionError{Reason: ReasonFetch, URI: res.uri, Cause: res.err}
			}
			raw, err := decodeDocument(res.uri, res.body)
			if err != nil {
				ld.table.FailDoc(res.uri, err)
				return nil, &ResolutionError{Reason: ReasonDecode, URI: res.uri, Cause: err}
			}
			if err := ld.storeDoc(ctx, res.uri, raw); err != nil {
				return nil, err
			}
		}
	}

	rootDoc, ok := ld.table.Doc(rootDocURI)
	if !ok {
		return nil, &ResolutionError{Reason: ReasonBadSchema, URI: rootDocURI, Cause: errors.New("root document missing")}
	}
	lk := &linker{table: ld.table, visited: map[*jsonschema.Node]bool{}}
	if err := lk.walk(rootDoc.Root, rootDoc); err != nil {
		return nil, err
	}
	return &Graph{engine: e, root: rootDoc.Root, rootURI: rootDocURI, table: ld.table}, nil
}

// LoadAsync is the callback form of Load for widget-style consumers. It
// resolves in the background and invokes exactly one of the callbacks.
func (e *Engine) LoadAsync(ctx context.Context, root any, baseURI string, onResolved func(*Graph), onError func(error)) {
	go func() {
		g, err := e.Load(ctx, root, baseURI)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onResolved != nil {
			onResolved(g)
		}
	}()
}

type fetchResult struct {
	uri  string
	body []byte
	err  error
}

type loader struct {
	engine      *Engine
	table       *reftable.Table
	completions chan fetchResult
	outstanding int
}

// startFetch claims uri in the table and issues the fetch. Claiming is
// what gives the loader single-flight semantics: a URI referenced from
// many places is fetched once.
func (ld *loader) startFetch(ctx context.Context, uri string) error {
	if !ld.table.Claim(uri) {
		return nil
	}
	if ld.engine.fetch == nil {
		return &ResolutionError{Reason: ReasonFetch, URI: uri, Cause: errors.New("no fetcher configured")}
	}
	ld.outstanding++
	go func() {
		body, err := ld.engine.fetch(ctx, uri)
		select {
		case ld.completions <- fetchResult{uri: uri, body: body, err: err}:
		case <-ctx.Done():
			// the owning load is gone; discard the completion
		}
	}()
	return nil
}

// storeDoc parses and registers a document, then fans out fetches for
// the external documents it references.
func (ld *loader) storeDoc(ctx context.Context, uri string, raw any) error {
	node, err := jsonschema.Parse(raw)
	if err != nil {
		return &ResolutionError{Reason: ReasonBadSchema, URI: uri, Cause: err}
	}
	doc := &reftable.Doc{URI: uri, Raw: raw, Root: node}
	ld.table.StoreDoc(doc)
	if base := effectiveBase(doc); base != uri {
		ld.table.AliasDoc(base, doc)
	}
	return ld.scan(ctx, raw, effectiveBase(doc))
}

// scan walks a raw document tree claiming a fetch for every
// cross-document reference. Pointer validity is checked later, in the
// link phase, once every document is present.
func (ld *loader) scan(ctx context.Context, raw any, base string) error {
	switch {
	case ordered.IsObject(raw):
		if v, ok := ordered.Lookup(raw, "$ref"); ok {
			if ref, ok := v.(string); ok {
				docURI, _, err := reftable.Canonicalize(base, ref)
				if err != nil {
					return &ResolutionError{Reason: ReasonDanglingRef, Pointer: ref, Cause: err}
				}
				if docURI != base {
					if err := ld.startFetch(ctx, docURI); err != nil {
						return err
					}
				}
			}
		}
		for _, k := range ordered.KeysOf(raw) {
			v, _ := ordered.Lookup(raw, k)
			if err := ld.scan(ctx, v, base); err != nil {
				return err
			}
		}
	default:
		if arr, ok := raw.([]any); ok {
			for _, v := range arr {
				if err := ld.scan(ctx, v, base); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func decodeDocument(uri string, body []byte) (any, error) {
	if strings.HasSuffix(uri, ".yaml") || strings.HasSuffix(uri, ".yml") {
		return yamldec.Decode(body)
	}
	return jsondec.Decode(body)
}

// effectiveBase returns the base URI references inside doc resolve
// against: the document's absolute "id" when declared, its canonical
// URI otherwise. Nested id scoping is not applied.
func effectiveBase(doc *reftable.Doc) string {
	if doc.Root != nil && doc.Root.ID != "" {
		if u, err := url.Parse(doc.Root.ID); err == nil && u.IsAbs() {
			return doc.Root.ID
		}
	}
	return doc.URI
}

// ---- link phase ----

type linker struct {
	table   *reftable.Table
	visited map[*jsonschema.Node]bool
}

func (lk *linker) walk(n *jsonschema.Node, doc *reftable.Doc) error {
	if n == nil || lk.visited[n] {
		return nil
	}
	lk.visited[n] = true
	if n.Ref != "" {
		if err := lk.link(n, doc); err != nil {
			return err
		}
	}
	for _, c := range n.Subnodes() {
		if err := lk.walk(c, doc); err != nil {
			return err
		}
	}
	return nil
}

// link resolves one $ref to its canonical URI and makes sure the target
// node is registered in the table. A target is registered before its
// subtree is walked, so reference cycles terminate: a back-reference
// finds its target already present and stays a lazy link by URI.
func (lk *linker) link(n *jsonschema.Node, doc *reftable.Doc) error {
	docURI, frag, err := reftable.Canonicalize(effectiveBase(doc), n.Ref)
	if err != nil {
		return &ResolutionError{Reason: ReasonDanglingRef, URI: doc.URI, Pointer: n.Ref, Cause: err}
	}
	key := reftable.Key(docURI, frag)
	n.RefURI = key
	if _, ok := lk.table.Node(key); ok {
		return nil
	}
	target, ok := lk.table.Doc(docURI)
	if !ok {
		return &ResolutionError{Reason: ReasonDanglingRef, URI: docURI, Pointer: n.Ref}
	}
	if frag == "" {
		lk.table.AddNode(key, target.Root)
		return lk.walk(target.Root, target)
	}
	segs, err := jsonptr.Parse(frag)
	if err != nil {
		return &ResolutionError{Reason: ReasonDanglingRef, URI: docURI, Pointer: n.Ref, Cause: err}
	}
	raw, err := jsonptr.Eval(target.Raw, segs)
	if err != nil {
		return &ResolutionError{Reason: ReasonDanglingRef, URI: docURI, Pointer: n.Ref, Cause: err}
	}
	tn, err := jsonschema.Parse(raw)
	if err != nil {
		return &ResolutionError{Reason: ReasonBadSchema, URI: docURI, Pointer: n.Ref, Cause: err}
	}
	tn = lk.table.AddNode(key, tn)
	return lk.walk(tn, target)
}
