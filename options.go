package schemakit

import (
	"context"

	"github.com/schemakit/schemakit/jsonschema"
)

// FetchFunc retrieves one external document by URI. It is the injected
// transport capability; the engine never fetches the same canonical URI
// twice. The returned bytes may be JSON or (for .yaml/.yml URIs) YAML.
type FetchFunc func(ctx context.Context, uri string) ([]byte, error)

// CustomValidator is a caller-supplied check invoked after the built-in
// keywords at every schema node. Returned issues are appended verbatim
// to the validation result. A panicking validator aborts the whole
// Validate call with a CustomValidatorError.
type CustomValidator func(node *jsonschema.Node, value any, path PathRef) Issues

// FormatFunc reports whether a string value satisfies a named format.
type FormatFunc func(value string) bool

// Options bundles engine construction options.
type Options struct {
	// Fetch supplies external documents. Leaving it nil restricts
	// resolution to fragment-only references.
	Fetch FetchFunc

	// CustomValidators run in order after built-in keyword checks.
	// The sequence is fixed for the lifetime of the engine.
	CustomValidators []CustomValidator

	// Formats extends (or overrides) the built-in format recognizers.
	// Formats with no recognizer are ignored, never errors.
	Formats map[string]FormatFunc
}
