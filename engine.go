package schemakit

import (
	"github.com/schemakit/schemakit/internal/reftable"
	"github.com/schemakit/schemakit/jsonschema"
)

// Engine resolves schema documents into graphs and validates values
// against them. Construction captures the fetch capability, custom
// validators and format recognizers; none of them change afterwards.
type Engine struct {
	fetch   FetchFunc
	customs []CustomValidator
	formats map[string]FormatFunc
}

// New builds an Engine. When several Options are given the last wins.
func New(opts ...Options) *Engine {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	formats := make(map[string]FormatFunc, len(builtinFormats)+len(opt.Formats))
	for name, fn := range builtinFormats {
		formats[name] = fn
	}
	for name, fn := range opt.Formats {
		formats[name] = fn
	}
	return &Engine{
		fetch:   opt.Fetch,
		customs: append([]CustomValidator{}, opt.CustomValidators...),
		formats: formats,
	}
}

// Graph is a fully resolved schema: the root node plus the reference
// table owning every node reachable through $ref. Once Load returns,
// a Graph is read-only; Validate may be called concurrently.
type Graph struct {
	engine  *Engine
	root    *jsonschema.Node
	rootURI string // canonical URI of the root document
	table   *reftable.Table
}

// Root returns the resolved root schema node.
func (g *Graph) Root() *jsonschema.Node { return g.root }

// RootURI returns the canonical URI of the root document.
func (g *Graph) RootURI() string { return g.rootURI }

// Deref follows a lazy back-reference to its target node in the
// reference table. Non-ref nodes are returned unchanged.
func (g *Graph) Deref(n *jsonschema.Node) (*jsonschema.Node, bool) {
	if n == nil {
		return nil, false
	}
	if n.RefURI == "" {
		return n, true
	}
	return g.table.Node(n.RefURI)
}

// DocumentURIs lists the canonical URIs of every document in the graph,
// the root document included.
func (g *Graph) DocumentURIs() []string { return g.table.DocURIs() }
