// Package jsondec decodes JSON documents into any-values whose objects
// preserve key order (see internal/ordered). Numbers decode as
// json.Number so no precision is lost before keyword evaluation.
package jsondec

import (
	"bytes"
	"fmt"
	"io"

	j "github.com/goccy/go-json"

	"github.com/schemakit/schemakit/internal/ordered"
)

// Decode parses a single JSON document from b.
func Decode(b []byte) (any, error) {
	return DecodeReader(bytes.NewReader(b))
}

// DecodeReader parses a single JSON document from r.
func DecodeReader(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	v, err := decodeValue(dec, tok)
	if err != nil {
		return nil, err
	}
	// trailing content is an error for a schema document
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("jsondec: trailing content after document")
	}
	return v, nil
}

func decodeValue(dec *j.Decoder, tok any) (any, error) {
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("jsondec: unexpected delimiter %v", t)
	case string:
		return t, nil
	case j.Number:
		return t, nil
	case float64:
		// UseNumber keeps this path unreachable; kept for decoder parity.
		return t, nil
	case bool:
		return t, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("jsondec: unexpected token %T", tok)
}

func decodeObject(dec *j.Decoder) (any, error) {
	obj := ordered.New()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpected(err)
		}
		if d, ok := tok.(j.Delim); ok && d == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("jsondec: object key is %T", tok)
		}
		vt, err := dec.Token()
		if err != nil {
			return nil, unexpected(err)
		}
		v, err := decodeValue(dec, vt)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
}

func decodeArray(dec *j.Decoder) (any, error) {
	arr := []any{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpected(err)
		}
		if d, ok := tok.(j.Delim); ok && d == ']' {
			return arr, nil
		}
		v, err := decodeValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
