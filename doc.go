// Package schemakit provides:
//
// - Reference resolution for JSON Schema documents (local, remote and cyclic $ref)
//   into a navigable, read-only schema graph
// - Keyword validation of arbitrary data values against a resolved graph,
//   producing a stable error model via Issues (JSON Pointer, keyword, message)
// - Caller-supplied custom validators merged into the same result list
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place the schema node model under jsonschema/ and localized messages under i18n/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	e := schemakit.New(schemakit.Options{Fetch: fetch})
//	g, err := e.Load(ctx, rawSchema, "https://example.com/schemas/root.json")
//	iss, err := g.Validate(value)
//
// Load resolves every reachable reference exactly once per canonical URI;
// Validate may then be called repeatedly (and concurrently) against the
// finished graph.
package schemakit
