package schemakit

import (
	"math"
	"unicode/utf8"

	"github.com/schemakit/schemakit/i18n"
	"github.com/schemakit/schemakit/internal/ordered"
	"github.com/schemakit/schemakit/jsonschema"
)

func (w *walker) checkNumber(n *jsonschema.Node, v any, p PathRef, iss Issues) Issues {
	f, _ := jsonschema.ToFloat(v)
	if n.Minimum != nil {
		if f < *n.Minimum || (n.ExclusiveMin && f == *n.Minimum) {
			iss = append(iss, p.Issue(KeywordMinimum, i18n.T(KeywordMinimum, nil),
				"min", *n.Minimum, "got", f, "exclusive", n.ExclusiveMin))
		}
	}
	if n.Maximum != nil {
		if f > *n.Maximum || (n.ExclusiveMax && f == *n.Maximum) {
			iss = append(iss, p.Issue(KeywordMaximum, i18n.T(KeywordMaximum, nil),
				"max", *n.Maximum, "got", f, "exclusive", n.ExclusiveMax))
		}
	}
	if n.MultipleOf != nil && *n.MultipleOf != 0 {
		div := f / *n.MultipleOf
		if math.Abs(div-math.Round(div)) > 1e-9 {
			iss = append(iss, p.Issue(KeywordMultipleOf, i18n.T(KeywordMultipleOf, nil),
				"multipleOf", *n.MultipleOf, "got", f))
		}
	}
	return iss
}

func (w *walker) checkString(n *jsonschema.Node, s string, p PathRef, iss Issues) Issues {
	length := utf8.RuneCountInString(s)
	if n.MinLength != nil && length < *n.MinLength {
		iss = append(iss, p.Issue(KeywordMinLength, i18n.T(KeywordMinLength, nil),
			"min", *n.MinLength, "got", length))
	}
	if n.MaxLength != nil && length > *n.MaxLength {
		iss = append(iss, p.Issue(KeywordMaxLength, i18n.T(KeywordMaxLength, nil),
			"max", *n.MaxLength, "got", length))
	}
	if n.Pattern != nil && !n.Pattern.MatchString(s) {
		iss = append(iss, p.Issue(KeywordPattern, i18n.T(KeywordPattern, nil),
			"pattern", n.PatternRaw))
	}
	// advisory: unknown format names are ignored
	if n.Format != "" {
		if fn, ok := w.graph.engine.formats[n.Format]; ok && !fn(s) {
			iss = append(iss, p.Issue(KeywordFormat, i18n.T(KeywordFormat, nil),
				"format", n.Format))
		}
	}
	return iss
}

func (w *walker) checkArray(n *jsonschema.Node, arr []any, p PathRef, iss Issues) Issues {
	if n.MinItems != nil && len(arr) < *n.MinItems {
		iss = append(iss, p.Issue(KeywordMinItems, i18n.T(KeywordMinItems, nil),
			"min", *n.MinItems, "got", len(arr)))
	}
	if n.MaxItems != nil && len(arr) > *n.MaxItems {
		iss = append(iss, p.Issue(KeywordMaxItems, i18n.T(KeywordMaxItems, nil),
			"max", *n.MaxItems, "got", len(arr)))
	}
	if n.UniqueItems {
		for i := 1; i < len(arr); i++ {
			for j := 0; j < i; j++ {
				if deepEqual(arr[i], arr[j]) {
					iss = append(iss, p.Index(i).Issue(KeywordUniqueItems, i18n.T(KeywordUniqueItems, nil),
						"duplicateOf", j))
				}
			}
		}
	}
	switch {
	case n.Items != nil:
		for i, el := range arr {
			iss = w.validate(n.Items, el, p.Index(i), iss)
		}
	case len(n.TupleItems) > 0:
		for i, el := range arr {
			if i < len(n.TupleItems) {
				iss = w.validate(n.TupleItems[i], el, p.Index(i), iss)
				continue
			}
			if n.AdditionalItems != nil {
				iss = w.validate(n.AdditionalItems, el, p.Index(i), iss)
			} else if n.NoExtraItems {
				iss = append(iss, p.Index(i).Issue(KeywordItems, "item not allowed beyond tuple"))
			}
		}
	}
	return iss
}

func (w *walker) checkObject(n *jsonschema.Node, obj any, p PathRef, iss Issues) Issues {
	// required: one error per missing key, each at the missing key's
	// own path.
	for _, key := range n.Required {
		if _, ok := ordered.Lookup(obj, key); !ok {
			iss = append(iss, p.Field(key).Issue(KeywordRequired, i18n.T(KeywordRequired, nil),
				"key", key))
		}
	}
	size := ordered.LenOf(obj)
	if n.MinProperties != nil && size < *n.MinProperties {
		iss = append(iss, p.Issue(KeywordMinProperties, i18n.T(KeywordMinProperties, nil),
			"min", *n.MinProperties, "got", size))
	}
	if n.MaxProperties != nil && size > *n.MaxProperties {
		iss = append(iss, p.Issue(KeywordMaxProperties, i18n.T(KeywordMaxProperties, nil),
			"max", *n.MaxProperties, "got", size))
	}

	declared := make(map[string]bool, len(n.Properties))
	for _, prop := range n.Properties {
		declared[prop.Name] = true
		if v, ok := ordered.Lookup(obj, prop.Name); ok {
			iss = w.validate(prop.Schema, v, p.Field(prop.Name), iss)
		}
	}

	for _, key := range ordered.KeysOf(obj) {
		v, _ := ordered.Lookup(obj, key)
		patterned := false
		for _, pp := range n.PatternProps {
			if pp.Re.MatchString(key) {
				patterned = true
				iss = w.validate(pp.Schema, v, p.Field(key), iss)
			}
		}
		if declared[key] || patterned {
			continue
		}
		if n.AdditionalProps != nil {
			iss = w.validate(n.AdditionalProps, v, p.Field(key), iss)
		} else if n.NoExtraProps {
			iss = append(iss, p.Field(key).Issue(KeywordAdditional, "property not allowed",
				"key", key))
		}
	}

	for _, dep := range n.Dependencies {
		if _, ok := ordered.Lookup(obj, dep.Name); !ok {
			continue
		}
		if dep.Schema != nil {
			iss = w.validate(dep.Schema, obj, p, iss)
			continue
		}
		for _, key := range dep.Keys {
			if _, ok := ordered.Lookup(obj, key); !ok {
				iss = append(iss, p.Field(key).Issue(KeywordDependencies, i18n.T(KeywordRequired, nil),
					"dependsOn", dep.Name, "key", key))
			}
		}
	}
	return iss
}
