package schemakit

import (
	"fmt"

	"github.com/schemakit/schemakit/i18n"
	"github.com/schemakit/schemakit/internal/ordered"
	"github.com/schemakit/schemakit/jsonschema"
)

// Validate walks value in lock-step with the resolved schema graph and
// returns every disagreement as an ordered Issues list. The traversal
// is deterministic: identical graph and value always produce an equal
// result. value is never mutated and no state survives the call, so a
// finished Graph may serve concurrent Validate calls.
//
// The error return is reserved for hard failures (a custom validator
// panicking); schema mismatches are data, never errors.
func (g *Graph) Validate(value any) (Issues, error) {
	w := &walker{graph: g}
	iss := w.validate(g.root, value, Root(), Issues{})
	if w.hardErr != nil {
		return nil, w.hardErr
	}
	return iss, nil
}

type walker struct {
	graph   *Graph
	probe   bool // combinator branch probe: skip custom validators
	hardErr error
}

func (w *walker) validate(n *jsonschema.Node, v any, p PathRef, iss Issues) Issues {
	if w.hardErr != nil || n == nil {
		return iss
	}

	// Lazy back-references are dereferenced through the table here;
	// recursion depth for cyclic schemas is bounded by the data's own
	// depth. Unresolved external refs (local expansion contexts) are
	// skipped rather than failed.
	if n.Ref != "" {
		if n.RefURI == "" {
			return iss
		}
		target, ok := w.graph.table.Node(n.RefURI)
		if !ok {
			return iss
		}
		return w.validate(target, v, p, iss)
	}

	if n.BoolValue != nil {
		if !*n.BoolValue {
			iss = append(iss, p.Issue(KeywordNot, "schema allows no value"))
		}
		return iss
	}

	kind := kindOf(v)

	// 1. type gate: a mismatch stops kind-specific checks below, but
	// kind-agnostic keywords still run.
	typeOK := true
	if len(n.Types) > 0 && !typeMatches(n.Types, v, kind) {
		typeOK = false
		iss = append(iss, p.Issue(KeywordType, i18n.T(KeywordType, nil),
			"expected", n.Types, "got", kind))
	}

	// 2. enum / const: structural deep equality.
	if len(n.Enum) > 0 {
		found := false
		for _, allowed := range n.Enum {
			if deepEqual(v, allowed) {
				found = true
				break
			}
		}
		if !found {
			iss = append(iss, p.Issue(KeywordEnum, i18n.T(KeywordEnum, nil), "got", v))
		}
	}
	if n.HasConst && !deepEqual(v, n.Const) {
		iss = append(iss, p.Issue(KeywordConst, i18n.T(KeywordConst, nil), "want", n.Const))
	}

	if typeOK {
		switch kind {
		case "number":
			iss = w.checkNumber(n, v, p, iss)
		case "string":
			iss = w.checkString(n, v.(string), p, iss)
		case "array":
			iss = w.checkArray(n, v.([]any), p, iss)
		case "object":
			iss = w.checkObject(n, v, p, iss)
		}
	}

	iss = w.checkCombinators(n, v, p, iss)

	if !w.probe {
		iss = w.runCustom(n, v, p, iss)
	}
	return iss
}

// branch evaluates a combinator branch without custom validators.
func (w *walker) branch(n *jsonschema.Node, v any, p PathRef) Issues {
	bw := &walker{graph: w.graph, probe: true}
	out := bw.validate(n, v, p, Issues{})
	if bw.hardErr != nil && w.hardErr == nil {
		w.hardErr = bw.hardErr
	}
	return out
}

func (w *walker) checkCombinators(n *jsonschema.Node, v any, p PathRef, iss Issues) Issues {
	// allOf: every branch must pass; errors from each failing branch
	// are all reported.
	for _, b := range n.AllOf {
		if sub := w.branch(b, v, p); len(sub) > 0 {
			iss = append(iss, sub...)
		}
	}

	if len(n.AnyOf) > 0 {
		var failures []Issues
		passed := false
		for _, b := range n.AnyOf {
			sub := w.branch(b, v, p)
			if len(sub) == 0 {
				passed = true
				break
			}
			failures = append(failures, sub)
		}
		if !passed {
			iss = append(iss, p.Issue(KeywordAnyOf, i18n.T(KeywordAnyOf, nil),
				"branches", len(n.AnyOf)))
			for _, sub := range failures {
				iss = append(iss, sub...)
			}
		}
	}

	if len(n.OneOf) > 0 {
		var matched []int
		var failures []Issues
		for i, b := range n.OneOf {
			sub := w.branch(b, v, p)
			if len(sub) == 0 {
				matched = append(matched, i)
			} else {
				failures = append(failures, sub)
			}
		}
		switch {
		case len(matched) == 0:
			iss = append(iss, p.Issue(KeywordOneOf, "value matches no schema",
				"branches", len(n.OneOf)))
			for _, sub := range failures {
				iss = append(iss, sub...)
			}
		case len(matched) > 1:
			// ambiguous match: more than one branch accepts the value
			iss = append(iss, p.Issue(KeywordOneOf, i18n.T(KeywordOneOf, nil),
				"matched", matched))
		}
	}

	if n.Not != nil {
		if sub := w.branch(n.Not, v, p); len(sub) == 0 {
			iss = append(iss, p.Issue(KeywordNot, i18n.T(KeywordNot, nil)))
		}
	}
	return iss
}

// runCustom invokes the caller-supplied validators registered at engine
// construction, appending their issues verbatim. A panic becomes a hard
// failure for the whole Validate call.
func (w *walker) runCustom(n *jsonschema.Node, v any, p PathRef, iss Issues) Issues {
	for i, cv := range w.graph.engine.customs {
		if w.hardErr != nil {
			return iss
		}
		more, err := w.callCustom(i, cv, n, v, p)
		if err != nil {
			w.hardErr = err
			return iss
		}
		iss = append(iss, more...)
	}
	return iss
}

func (w *walker) callCustom(idx int, cv CustomValidator, n *jsonschema.Node, v any, p PathRef) (out Issues, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CustomValidatorError{Index: idx, Path: p.Pointer(), Recovered: r}
		}
	}()
	return cv(n, v, p), nil
}

// ---- runtime kinds ----

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	}
	if _, ok := jsonschema.ToFloat(v); ok {
		return "number"
	}
	if ordered.IsObject(v) {
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func typeMatches(types []string, v any, kind string) bool {
	for _, t := range types {
		if t == kind {
			return true
		}
		if t == "integer" && kind == "number" {
			if f, ok := jsonschema.ToFloat(v); ok && f == float64(int64(f)) {
				return true
			}
		}
	}
	return false
}
