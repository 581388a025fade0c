package schemakit

import (
	"errors"
	"fmt"
	"strings"
)

// Keyword names carried by Issue.Keyword. Built-in checks report the JSON
// Schema keyword that failed; custom validators may use any name.
const (
	KeywordType          = "type"
	KeywordEnum          = "enum"
	KeywordConst         = "const"
	KeywordMinimum       = "minimum"
	KeywordMaximum       = "maximum"
	KeywordMultipleOf    = "multipleOf"
	KeywordMinLength     = "minLength"
	KeywordMaxLength     = "maxLength"
	KeywordPattern       = "pattern"
	KeywordFormat        = "format"
	KeywordItems         = "items"
	KeywordMinItems      = "minItems"
	KeywordMaxItems      = "maxItems"
	KeywordUniqueItems   = "uniqueItems"
	KeywordRequired      = "required"
	KeywordMinProperties = "minProperties"
	KeywordMaxProperties = "maxProperties"
	KeywordAdditional    = "additionalProperties"
	KeywordDependencies  = "dependencies"
	KeywordAllOf         = "allOf"
	KeywordAnyOf         = "anyOf"
	KeywordOneOf         = "oneOf"
	KeywordNot           = "not"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /items/2/price).
	Keyword string // Failing keyword, one of the constants above or a custom name.
	Message string
	// Params carries structured parameters (e.g., {"min":1, "got":42})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. type at /a/b
		fmt.Fprintf(b, "%s at %s", it.Keyword, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// ---- resolution errors ----

// Resolution failure reasons. Resolution errors abort the Load call; they are
// disjoint from Issues, which describe data/schema mismatches.
const (
	ReasonFetch       = "fetch_failed"
	ReasonDecode      = "invalid_document"
	ReasonDanglingRef = "dangling_ref"
	ReasonBadSchema   = "invalid_schema"
)

// ResolutionError reports a fatal failure while resolving a schema graph.
type ResolutionError struct {
	Reason  string // One of the Reason* constants.
	URI     string // Canonical document URI, when known.
	Pointer string // Offending $ref text or JSON Pointer, when known.
	Cause   error
}

func (e *ResolutionError) Error() string {
	b := &strings.Builder{}
	b.WriteString("schemakit: ")
	b.WriteString(e.Reason)
	if e.Pointer != "" {
		fmt.Fprintf(b, " %q", e.Pointer)
	}
	if e.URI != "" {
		fmt.Fprintf(b, " (document %s)", e.URI)
	}
	if e.Cause != nil {
		fmt.Fprintf(b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *ResolutionError) Unwrap() error { return e.Cause }

// AsResolutionError extracts a *ResolutionError from err, if present.
func AsResolutionError(err error) (*ResolutionError, bool) {
	var re *ResolutionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// CustomValidatorError wraps a panic raised by a caller-supplied validator.
// It is a hard failure, distinguishable from a normal Validation result.
type CustomValidatorError struct {
	Index     int // Position in the registered validator sequence.
	Path      string
	Recovered any
}

func (e *CustomValidatorError) Error() string {
	return fmt.Sprintf("schemakit: custom validator %d panicked at %s: %v", e.Index, e.Path, e.Recovered)
}
